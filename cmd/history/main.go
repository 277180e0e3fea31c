// Command history lists the messages already stored in the platform inbox.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sms-forwarder/domain"
	"sms-forwarder/history"
	"sms-forwarder/identity"
	"strconv"
	"time"

	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	config, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	resolver := identity.NewDeviceResolver(log,
		identity.StaticLine(config.PrimaryLineNumber),
		identity.StaticSubscriptions(config.SubscriptionNumbers),
		config.DefaultIdentity,
	)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	messages, err := history.NewSource(config.InboxDBPath, resolver, log).ListHistoricalMessages(ctx)
	if err != nil {
		return err
	}

	if config.JSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(messages)
	}

	color.Enable = config.Colours
	if len(messages) == 0 {
		color.Yellow.Println("Inbox is empty")
		return nil
	}
	for _, m := range messages {
		printMessage(m)
	}
	color.Gray.Printf("%d message(s)\n", len(messages))
	return nil
}

func printMessage(m domain.HistoricalMessage) {
	at := m.DateReceived
	if millis, err := strconv.ParseInt(m.DateReceived, 10, 64); err == nil {
		at = time.UnixMilli(millis).Format(time.DateTime)
	}
	color.Cyan.Printf("%s ", at)
	color.Green.Printf("%s", m.Sender)
	color.Gray.Printf(" -> %s [%s]\n", m.Receiver, m.Status)
	fmt.Printf("  %s\n", m.Content)
}
