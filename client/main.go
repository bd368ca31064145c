// Command client is a small development aid: it speaks the same 10-byte
// wire protocol as numbersd, standing in for the two external test
// programs described in the original design (one that floods random
// records, one that sends the terminate token). Neither program is part
// of the ingestion service itself.
package main

import (
	"fmt"
	"math/rand"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// VERSION is populated via build flags when packaging official binaries.
var VERSION = "SELFBUILD"

func main() {
	app := cli.NewApp()
	app.Name = "client"
	app.Usage = "development client for the numbers ingestion service"
	app.Version = VERSION
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "address",
			Value: "localhost:4000",
			Usage: "server address to dial",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "numbers",
			Usage: "connect and stream random 9-digit records until interrupted",
			Action: func(c *cli.Context) error {
				return runNumbers(c.GlobalString("address"))
			},
		},
		{
			Name:  "terminate",
			Usage: "connect and send the terminate token",
			Action: func(c *cli.Context) error {
				return runTerminate(c.GlobalString("address"))
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		color.Red("%+v", err)
		os.Exit(1)
	}
}

// runNumbers mirrors client_numbers.py: connect, then stream random
// 9-digit records with no backoff until interrupted or the peer goes
// away.
func runNumbers(address string) error {
	conn, err := net.Dial("tcp", address)
	if err != nil {
		return errors.Wrap(err, "connection refused, is the server running?")
	}
	defer conn.Close()

	fmt.Println("Connected. Sending numbers...")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for {
		select {
		case <-sigCh:
			fmt.Println("Disconnecting...")
			return nil
		default:
		}

		record := fmt.Sprintf("%09d\n", rng.Intn(1000000000))
		if _, err := conn.Write([]byte(record)); err != nil {
			fmt.Println("Connection closed remotely.")
			return nil
		}
	}
}

// runTerminate mirrors client_terminate.py: connect, send the terminate
// token, then drain the connection until the server closes it.
func runTerminate(address string) error {
	conn, err := net.Dial("tcp", address)
	if err != nil {
		return errors.Wrap(err, "connection refused, is the server running?")
	}
	defer conn.Close()

	fmt.Println("Connected. Sending 'terminate'...")
	if _, err := conn.Write([]byte("terminate\n")); err != nil {
		fmt.Println("Connection closed remotely.")
		return nil
	}

	buf := make([]byte, 1024)
	for {
		n, err := conn.Read(buf)
		if n == 0 || err != nil {
			fmt.Println("Connection closed remotely.")
			return nil
		}
	}
}
