// feedbackctl exercises the feedback SDK from a terminal: check whether an
// installation is eligible for a prompt, and submit a feedback record to a
// collector.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/feedbackkit/feedback"
	"github.com/ignite/feedbackkit/flagstore"
	"github.com/ignite/feedbackkit/installdate"
)

func main() {
	endpoint := flag.String("endpoint", "http://localhost:8080/feedback", "collector endpoint URL")
	appName := flag.String("app-name", "", "app name uploaded with feedback")
	appStoreID := flag.String("app-store-id", "", "App Store ID (required for eligibility checks)")
	supportEmail := flag.String("support-email", "", "fallback support contact shown on failure")
	delayDays := flag.Int("delay-days", feedback.DefaultPromptDelayDays, "days after install before prompting")
	redisAddr := flag.String("redis", "", "redis address for the flag store (empty: in-memory)")
	installFile := flag.String("install-file", "", "first-run state file recording the install date")
	installedAt := flag.String("installed-at", "", "install date override, RFC 3339")

	check := flag.Bool("check", false, "run the eligibility check instead of submitting")
	message := flag.String("message", "", "feedback message to submit")
	replyEmail := flag.String("email", "", "optional reply email")
	userID := flag.String("user", "", "optional user ID")
	feedbackType := flag.String("type", string(feedback.TypeGeneralFeedback), "feedback type: feature_request, general_feedback or issue")
	flag.Parse()

	cfg, err := feedback.NewConfig(feedback.Options{
		Endpoint:             *endpoint,
		AppName:              *appName,
		AppStoreID:           *appStoreID,
		FallbackSupportEmail: *supportEmail,
		PromptDelayDays:      delayDays,
		FlagStore:            buildStore(*redisAddr),
	})
	if err != nil {
		fatal("invalid configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if *check {
		runCheck(ctx, cfg, *installFile, *installedAt)
		return
	}
	runSubmit(ctx, cfg, *message, *replyEmail, *userID, *feedbackType)
}

func buildStore(redisAddr string) feedback.FlagStore {
	if redisAddr == "" {
		return nil // SDK default in-memory store
	}
	client := redis.NewClient(&redis.Options{Addr: redisAddr})
	return flagstore.NewRedis(client, "feedback:")
}

func buildInstallSource(installFile, installedAt string) (feedback.InstallDateSource, error) {
	if installedAt != "" {
		at, err := time.Parse(time.RFC3339, installedAt)
		if err != nil {
			return nil, fmt.Errorf("bad -installed-at: %w", err)
		}
		return installdate.Static{At: at}, nil
	}
	if installFile != "" {
		return installdate.NewFirstRun(installFile), nil
	}
	return installdate.Unavailable{}, nil
}

func runCheck(ctx context.Context, cfg *feedback.Config, installFile, installedAt string) {
	source, err := buildInstallSource(installFile, installedAt)
	if err != nil {
		fatal("%v", err)
	}

	engine := feedback.NewEngine(cfg, source)
	if engine.ShouldPrompt(ctx) {
		fmt.Println("eligible: prompt now")
		if u := cfg.ReviewURL(); u != nil {
			fmt.Printf("review link: %s\n", u)
		}
		return
	}
	fmt.Println("not eligible")
}

func runSubmit(ctx context.Context, cfg *feedback.Config, message, replyEmail, userID, feedbackType string) {
	if message == "" {
		fatal("-message is required")
	}
	typ := feedback.Type(feedbackType)
	if !typ.Valid() {
		fatal("unknown -type %q", feedbackType)
	}

	in := feedback.Input{Message: message, Type: typ}
	if replyEmail != "" {
		in.ReplyEmail = &replyEmail
	}
	if userID != "" {
		in.UserID = &userID
	}

	rec := feedback.NewRecord(cfg, feedback.SystemEnvironment{}, in)
	err := feedback.NewPipeline(cfg).Submit(ctx, rec)
	if err == nil {
		fmt.Println("feedback delivered")
		return
	}

	var respErr *feedback.ResponseError
	var transportErr *feedback.TransportError
	switch {
	case errors.As(err, &respErr):
		fmt.Fprintf(os.Stderr, "collector rejected the feedback: status %d: %s\n", respErr.StatusCode, respErr.Body)
	case errors.As(err, &transportErr):
		fmt.Fprintf(os.Stderr, "could not reach the collector: %v\n", transportErr.Err)
	default:
		fmt.Fprintf(os.Stderr, "submission failed: %v\n", err)
	}
	if support := cfg.FallbackSupportEmail(); support != "" {
		fmt.Fprintf(os.Stderr, "you can also email %s directly\n", support)
	}
	os.Exit(1)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
