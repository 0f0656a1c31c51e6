package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"

	"tracker/internal"
	"tracker/internal/address"
	"tracker/internal/tracker"
)

// Small client that builds the binary instruction payloads and submits them
// to a running tracker service.
//
//	client -server http://127.0.0.1:8080 -secret <key> init
//	client -server http://127.0.0.1:8080 -secret <key> play
//	client -server http://127.0.0.1:8080 state
func main() {
	server := flag.String("server", "http://127.0.0.1:8080", "Base URL of the tracker service")
	secret := flag.String("secret", "", "Service secret the capability token is derived from")
	seed := flag.String("seed", internal.DefaultTrackerSeed, "Seed the record address is derived from")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Printf("Usage: client [flags] init|play|state\n")
		os.Exit(2)
	}

	trackerAddress := address.Resolve(*seed)

	var payload []byte
	switch flag.Arg(0) {
	case "init":
		payload = []byte{byte(tracker.InstructionInitialize)}
	case "play":
		payload = []byte{byte(tracker.InstructionPlaySeason)}
	case "state":
		readState(*server)
		return
	default:
		fmt.Printf("Unknown command %q\n", flag.Arg(0))
		os.Exit(2)
	}

	token := address.NewKeyring(*secret).DeriveCapability(trackerAddress)

	req, err := http.NewRequest(http.MethodPost, *server+"/instruction", bytes.NewReader(payload))
	if err != nil {
		fmt.Printf("Could not build the request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("X-Capability", token)

	dump(http.DefaultClient.Do(req))
}

func readState(server string) {
	dump(http.Get(server + "/state"))
}

func dump(resp *http.Response, err error) {
	if err != nil {
		fmt.Printf("Request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("%s\n%s\n", resp.Status, body)
	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}
