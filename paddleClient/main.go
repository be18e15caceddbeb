package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/lguibr/asciiring/helpers"
	"golang.org/x/net/websocket"
	"golang.org/x/sys/unix"

	"github.com/lguibr/paddlebounce/game"
	"github.com/lguibr/paddlebounce/render"
)

func setRawMode(fileDescriptor uintptr) (*unix.Termios, error) {
	terminalSettings, err := unix.IoctlGetTermios(int(fileDescriptor), unix.TCGETS)
	if err != nil {
		return nil, err
	}
	savedTerminalSettings := *terminalSettings
	terminalSettings.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	terminalSettings.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN | unix.ISIG
	terminalSettings.Cflag &^= unix.CSIZE | unix.PARENB
	terminalSettings.Cflag |= unix.CS8
	terminalSettings.Oflag |= unix.OPOST | unix.ONLCR

	if err := unix.IoctlSetTermios(int(fileDescriptor), unix.TCSETS, terminalSettings); err != nil {
		return nil, err
	}
	return &savedTerminalSettings, nil
}

func restore(saved *unix.Termios) {
	_ = unix.IoctlSetTermios(int(os.Stdin.Fd()), unix.TCSETS, saved)
}

// drawFrames prints every state frame until the connection drops.
func drawFrames(ws *websocket.Conn, cols, rows int) {
	for {
		var frame game.Frame
		if err := websocket.JSON.Receive(ws, &frame); err != nil {
			fmt.Println("Error reading from server:", err)
			return
		}
		if frame.MessageType != game.FrameState || frame.State == nil {
			continue
		}
		helpers.ClearScreen()
		fmt.Print(render.Snapshot(*frame.State, cols, rows))
		fmt.Printf("tick %d  W/S left paddle, arrows right paddle, q quits\n", frame.Tick)
	}
}

func main() {
	var (
		url, origin string
		cols, rows  int
		holdWindow  time.Duration
	)
	flag.StringVar(&url, "url", "ws://localhost:3001/subscribe", "subscribe endpoint")
	flag.StringVar(&origin, "origin", "http://localhost/", "websocket origin")
	flag.IntVar(&cols, "cols", 80, "render width in characters")
	flag.IntVar(&rows, "rows", 24, "render height in characters")
	flag.DurationVar(&holdWindow, "hold", 150*time.Millisecond, "release a key after it stops repeating for this long")
	flag.Parse()

	websocketConnection, err := websocket.Dial(url, "", origin)
	if err != nil {
		fmt.Println("Error connecting to server:", err)
		return
	}
	defer websocketConnection.Close()
	go drawFrames(websocketConnection, cols, rows)

	savedTerminalSettings, err := setRawMode(os.Stdin.Fd())
	if err != nil {
		fmt.Println("Error setting raw mode:", err)
		return
	}
	defer restore(savedTerminalSettings)

	interruptSignalChannel := make(chan os.Signal, 1)
	signal.Notify(interruptSignalChannel, os.Interrupt)
	go func() {
		<-interruptSignalChannel
		restore(savedTerminalSettings)
		os.Exit(0)
	}()

	var mu sync.Mutex
	held := newHoldTracker(holdWindow)
	send := func(k game.Key, pressed bool) {
		if err := websocket.JSON.Send(websocketConnection, game.KeyMessage{Key: string(k), Pressed: pressed}); err != nil {
			fmt.Println("Error sending to server:", err)
		}
	}

	go func() {
		ticker := time.NewTicker(holdWindow / 3)
		defer ticker.Stop()
		for now := range ticker.C {
			mu.Lock()
			released := held.expire(now)
			mu.Unlock()
			for _, k := range released {
				send(k, false)
			}
		}
	}()

	var decoder keyDecoder
	singleByteBuffer := make([]byte, 1)
	for {
		if _, err := os.Stdin.Read(singleByteBuffer); err != nil {
			return
		}
		key, ok, quit := decoder.feed(singleByteBuffer[0])
		if quit {
			fmt.Println("Quitting")
			return
		}
		if !ok {
			continue
		}
		mu.Lock()
		first := held.press(key, time.Now())
		mu.Unlock()
		if first {
			send(key, true)
		}
	}
}
