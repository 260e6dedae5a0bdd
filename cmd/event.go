package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/frahmantamala/business-management/internal/core/events"
	"github.com/frahmantamala/business-management/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Publish role lifecycle events to the event bus for testing and debugging`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [created|updated|deleted]",
	Short: "Publish a test role event",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		publishTestRoleEvent(args[0])
	},
}

var eventRoleName string

func publishTestRoleEvent(kind string) {
	logger := logger.LoggerWrapper()

	eventBus := events.NewEventBus(logger)

	var event events.Event
	switch kind {
	case "created":
		event = events.NewRoleCreatedEvent("test-role-id", eventRoleName)
	case "updated":
		event = events.NewRoleUpdatedEvent("test-role-id", eventRoleName, []string{"dashboard:read"})
	case "deleted":
		event = events.NewRoleDeletedEvent("test-role-id", eventRoleName)
	default:
		fmt.Printf("unknown event kind %q, expected created, updated or deleted\n", kind)
		return
	}

	eventBus.Subscribe(event.EventType(), func(ctx context.Context, received events.Event) error {
		logger.Info("test handler received event",
			"event_id", received.EventID(),
			"event_type", received.EventType(),
			"payload", received.Payload())
		return nil
	})

	logger.Info("publishing test event", "event_type", event.EventType(), "event_id", event.EventID())

	if err := eventBus.Publish(context.Background(), event); err != nil {
		logger.Error("failed to publish event", "error", err)
		return
	}

	time.Sleep(100 * time.Millisecond)
	logger.Info("test event published successfully")
}

func init() {
	publishEventCmd.Flags().StringVar(&eventRoleName, "role-name", "test-role", "Role name carried in the event payload")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
