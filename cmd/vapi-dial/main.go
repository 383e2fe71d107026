// vapi-dial starts a web call against a backend and prints session events
// until interrupted. It exists to exercise the SDK end-to-end; it is not
// part of the library surface.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	vapi "github.com/unbtbl-forks/vapi-go/sdk"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var assistantID string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "vapi-dial",
		Short: "Start a web call and print session events",
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			v.SetEnvPrefix("VAPI")
			v.AutomaticEnv()
			v.SetDefault("host", "api.vapi.ai")

			host := v.GetString("host")
			publicKey := v.GetString("public_key")
			if publicKey == "" {
				return fmt.Errorf("VAPI_PUBLIC_KEY is required")
			}
			if assistantID == "" {
				return fmt.Errorf("--assistant-id is required")
			}

			logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				With().Timestamp().Logger()
			if !verbose {
				logger = logger.Level(zerolog.WarnLevel)
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			client := vapi.NewClient(host, publicKey, vapi.WithLogger(logger))
			sub := client.Subscribe()
			defer sub.Close()

			webCall, err := client.Start(ctx, vapi.Target{AssistantID: assistantID})
			if err != nil {
				return err
			}
			logger.Info().Str("call_id", webCall.ID).Str("url", webCall.WebCallURL).Msg("call created")

			for {
				select {
				case <-ctx.Done():
					client.Stop()
					return nil
				case event, ok := <-sub.Events():
					if !ok {
						return nil
					}
					printEvent(event)
					switch event.(type) {
					case vapi.CallEndEvent:
						return nil
					case vapi.ErrorEvent:
						return nil
					}
				}
			}
		},
	}

	cmd.Flags().StringVar(&assistantID, "assistant-id", "", "backend assistant to call")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log SDK internals")
	return cmd
}

func printEvent(event vapi.Event) {
	switch e := event.(type) {
	case vapi.CallStartEvent:
		fmt.Println("call started")
	case vapi.CallEndEvent:
		fmt.Println("call ended")
	case vapi.TranscriptEvent:
		marker := ""
		if e.Final() {
			marker = " (final)"
		}
		fmt.Printf("[%s]%s %s\n", e.Role, marker, e.Transcript)
	case vapi.FunctionCallEvent:
		fmt.Printf("function call: %s %v\n", e.Name, e.Parameters)
	case vapi.HangEvent:
		fmt.Println("assistant requested hangup")
	case vapi.ErrorEvent:
		fmt.Printf("error: %v\n", e.Err)
	default:
		fmt.Printf("event: %s\n", event.EventType())
	}
}
