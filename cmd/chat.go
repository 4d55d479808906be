package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/ai"
	"github.com/spigell/talentscout/internal/conversation"
	"github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/storage"
	"github.com/spigell/talentscout/internal/submission"
)

const (
	PromptStart       = "Start"
	PromptSampleStack = "Sample stack"
	PromptExit        = "Exit"
	PromptReset       = "Reset conversation"
	PromptBack        = "back"

	sampleStack = "Python, Django, React, PostgreSQL, Docker"
)

// quickCommands maps menu items to the message they send.
var quickCommands = map[string]string{
	PromptStart:       "/start",
	PromptSampleStack: sampleStack,
	PromptExit:        "bye",
}

var quickPrompt = promptui.Select{
	Label: "Quick commands",
	Items: []string{PromptStart, PromptSampleStack, PromptExit, PromptReset, PromptBack},
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start a screening conversation in the terminal",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runChat(cmd)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().Bool("start", false, "send /start right away")
}

// chat drives one terminal conversation over the assistant.
type chat struct {
	assistant *conversation.Assistant
	finalizer *submission.Finalizer
	session   *conversation.Session
	out       io.Writer
	logger    *zap.Logger
}

func newChat(assistant *conversation.Assistant, finalizer *submission.Finalizer, out io.Writer, log *zap.Logger) *chat {
	c := &chat{
		assistant: assistant,
		finalizer: finalizer,
		out:       out,
		logger:    logger.WithFields(log),
	}
	c.reset()
	return c
}

// send handles one candidate message and reports whether the conversation
// is over. A finished conversation is finalized right away.
func (c *chat) send(ctx context.Context, text string) bool {
	renderTurn(c.out, ai.RoleUser, text)

	reply, finished := c.assistant.HandleMessage(ctx, c.session, text)
	renderTurn(c.out, ai.RoleAssistant, reply)

	if !finished {
		return false
	}

	_, saved := c.finalizer.Finalize(c.session)
	renderStatus(c.out, saved)
	return true
}

// turn sends one message under its own interrupt context. Ctrl-C during
// generation aborts only the current turn and the candidate can retry.
func (c *chat) turn(text string) bool {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return c.send(ctx, text)
}

func (c *chat) reset() {
	c.session = conversation.NewSession()
	c.logger.Debug("new session", zap.String(logger.FieldSession, c.session.ID))
}

// quickCommand shows the quick commands menu and returns the message to send,
// or an empty string when nothing should be sent.
func (c *chat) quickCommand() (string, error) {
	_, selected, err := quickPrompt.Run()
	if err != nil {
		return "", err
	}

	switch selected {
	case PromptBack:
		return "", nil
	case PromptReset:
		c.reset()
		fmt.Fprintln(c.out, infoStyle.Render("Conversation reset."))
		return "", nil
	default:
		message, ok := quickCommands[selected]
		if !ok {
			return "", fmt.Errorf("invalid quick command: %s", selected)
		}
		return message, nil
	}
}

func runChat(cmd *cobra.Command) error {
	ctx := context.Background()

	logger, err := logger.New(logger.Options{
		JSON:   viper.GetBool("json"),
		Debug:  viper.GetBool("debug"),
		Output: viper.GetString("log-output"),
	})
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the talentscout chat", zap.String("version", version))

	generator, mode, err := newGenerator(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building ai generator", zap.Error(err))
	}

	store := storage.NewFileStore(config.StorageFile, logger)
	c := newChat(
		conversation.New(generator, logger),
		submission.NewFinalizer(store, logger),
		cmd.OutOrStdout(),
		logger,
	)

	renderHeader(c.out, mode, store.Path())

	if start, _ := cmd.Flags().GetBool("start"); start {
		if c.turn("/start") {
			return nil
		}
	}

	input := promptui.Prompt{Label: "You"}

	for {
		line, err := input.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				logger.Info("exiting", zap.String("reason", "input closed"))
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}

		text := strings.TrimSpace(line)
		if text == "" {
			text, err = c.quickCommand()
			if err != nil {
				if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
					continue
				}
				return fmt.Errorf("quick commands: %w", err)
			}
			if text == "" {
				continue
			}
		}

		if c.turn(text) {
			return nil
		}
	}
}
