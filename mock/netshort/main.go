// Mock netshort upstream for local development. The theater feeds serve
// grouped payloads; play payloads carry the title merged with its episodes.
package main

import (
	_ "embed"
	"log"
	"net/http"
	"time"
)

//go:embed theaters.json
var theatersData []byte

//go:embed play.json
var playData []byte

func serveJSON(name string, data []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Simulate network latency (100-300ms)
		time.Sleep(time.Duration(100+time.Now().UnixNano()%200) * time.Millisecond)

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Source", "netshort")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(data); err != nil {
			log.Printf("[netshort] write error: %v", err)
		}

		log.Printf("[netshort] %s %s (%s) - 200 OK", r.Method, r.URL.Path, name)
	}
}

func main() {
	for _, path := range []string{"/theaters", "/latest", "/trending", "/foryou", "/vip"} {
		http.HandleFunc(path, serveJSON("theaters", theatersData))
	}

	http.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"data":[{"shortPlayId":90011,"shortPlayName":"Silent Bride","cover":"https://cdn.example.com/ns/90011.jpg","heatScore":7.8}]}`)); err != nil {
			log.Printf("[netshort] write error: %v", err)
		}
		log.Printf("[netshort] %s %s - 200 OK", r.Method, r.URL.Path)
	})

	http.HandleFunc("/play/", serveJSON("play", playData))

	log.Println("Mock netshort running on :8082")
	log.Fatal(http.ListenAndServe(":8082", nil))
}
