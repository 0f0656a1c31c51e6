package main

import (
	"flag"
	"fmt"
	"os"

	"tracker/internal/feed"

	zmq "github.com/pebbe/zmq4"
)

// Subscribes to the transition feed of a running tracker service and prints
// every event as it arrives.
func main() {
	connect := flag.String("connect", "tcp://127.0.0.1:46001", "Feed endpoint of the tracker service")
	flag.Parse()

	socket, err := zmq.NewSocket(zmq.SUB)
	if err != nil {
		fmt.Printf("Could not create the SUB socket: %v\n", err)
		os.Exit(1)
	}
	defer socket.Close()

	if err := socket.Connect(*connect); err != nil {
		fmt.Printf("Could not connect to %s: %v\n", *connect, err)
		os.Exit(1)
	}
	socket.SetSubscribe(feed.TransitionTopic)

	fmt.Printf("Listening on %s...\n", *connect)
	for {
		parts, err := socket.RecvMessage(0)
		if err != nil {
			fmt.Printf("Feed closed: %v\n", err)
			return
		}
		if len(parts) < 2 {
			continue
		}
		fmt.Printf("%s\n", parts[1])
	}
}
