// Headless WanderWorlds client: joins the world, wanders with random key
// holds, and chats occasionally. Useful for soaking the server and as the
// reference consumer of the client package.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/Seednode/wanderworlds/client"
	"github.com/Seednode/wanderworlds/game"
)

func main() {
	var (
		url   = flag.String("url", "ws://localhost:8080/world/ws", "ws url")
		name  = flag.String("name", "bot", "display name")
		color = flag.String("color", "#5585FF", "avatar color")
		chat  = flag.Duration("chat", 30*time.Second, "interval between chat messages, 0 to disable")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)

	c := client.New(*url, game.DefaultTuning())
	if err := c.Connect(); err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer c.Disconnect()

	// Wait for the join to land before customizing.
	for c.Self() == nil {
		time.Sleep(50 * time.Millisecond)
	}
	_ = c.SetName(*name)
	_ = c.SetColor(*color)
	logger.Printf("joined as %s", c.PlayerID())

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	wander := time.NewTicker(500 * time.Millisecond)
	defer wander.Stop()

	var say <-chan time.Time
	if *chat > 0 {
		t := time.NewTicker(*chat)
		defer t.Stop()
		say = t.C
	}

	for {
		select {
		case <-stop:
			logger.Printf("final score: %d", c.Self().Score)
			return

		case <-wander.C:
			c.SetKeys(client.Keys{
				Up:    rng.Intn(3) == 0,
				Down:  rng.Intn(3) == 0,
				Left:  rng.Intn(3) == 0,
				Right: rng.Intn(3) == 0,
			})

		case <-say:
			if self := c.Self(); self != nil {
				_ = c.SendChat(fmt.Sprintf("wandering at (%.0f, %.0f), score %d",
					self.Position.X, self.Position.Y, self.Score))
			}
		}
	}
}
