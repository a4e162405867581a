// Mock dramabox upstream for local development. Serves enveloped payloads
// with the historical field aliases the real API mixes freely.
package main

import (
	_ "embed"
	"log"
	"net/http"
	"time"
)

//go:embed catalog.json
var catalogData []byte

//go:embed episodes.json
var episodesData []byte

func serveJSON(name string, data []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Simulate network latency (50-200ms)
		time.Sleep(time.Duration(50+time.Now().UnixNano()%150) * time.Millisecond)

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Source", "dramabox")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(data); err != nil {
			log.Printf("[dramabox] write error: %v", err)
		}

		log.Printf("[dramabox] %s %s (%s) - 200 OK", r.Method, r.URL.Path, name)
	}
}

func main() {
	for _, path := range []string{"/latest", "/trending", "/foryou", "/vip", "/dubindo", "/search"} {
		http.HandleFunc(path, serveJSON("catalog", catalogData))
	}

	http.HandleFunc("/detail", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"data":{"bookId":"41000123","bookName":"Love After Dark","coverWap":"https://cdn.example.com/covers/41000123.jpg","chapterCount":82,"tags":["Romance","CEO"],"introduction":"She signed the contract. She never read the fine print."}}`)); err != nil {
			log.Printf("[dramabox] write error: %v", err)
		}
		log.Printf("[dramabox] %s %s - 200 OK", r.Method, r.URL.Path)
	})

	http.HandleFunc("/allepisode", serveJSON("episodes", episodesData))

	http.HandleFunc("/stream", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"data":{"chapter":{"video":{"mp4":"https://cdn.example.com/videos/41000123/ep.mp4"}}}}`)); err != nil {
			log.Printf("[dramabox] write error: %v", err)
		}
		log.Printf("[dramabox] %s %s - 200 OK", r.Method, r.URL.Path)
	})

	http.HandleFunc("/populersearch", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`["revenge","ceo","contract marriage","hidden heir"]`)); err != nil {
			log.Printf("[dramabox] write error: %v", err)
		}
	})

	http.HandleFunc("/randomdrama", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"data":{"bookId":"41000777","bookName":"Roll the Dice","coverWap":"https://cdn.example.com/covers/41000777.jpg"}}`)); err != nil {
			log.Printf("[dramabox] write error: %v", err)
		}
	})

	log.Println("Mock dramabox running on :8081")
	server := &http.Server{
		Addr:         ":8081",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
