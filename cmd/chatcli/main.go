// Command chatcli is a thin terminal front end for the chat API: log in,
// ask questions, manage threads, and recover a forgotten password.
//
// Configuration comes from the environment:
//
//	CHAT_BASE_URL      API mount point (default http://localhost/api)
//	CHAT_TIMEOUT       request timeout (default 15s)
//	CHAT_REDIS_ADDR    optional redis address for durable session storage
//	CHAT_REDIS_PREFIX  key prefix for the stored session (default cc)
//	CHAT_LEGACY_RESET  use the legacy forgot-password endpoint aliases
//
// Usage:
//
//	chatcli login <email-or-username> <password>
//	chatcli ask [-thread id] <query...>
//	chatcli threads
//	chatcli messages <thread-id>
//	chatcli rm <thread-id>
//	chatcli whoami
//	chatcli reset <email>
//	chatcli logout
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/redis/go-redis/v9"

	"github.com/docsage/chatclient"
)

type cliConfig struct {
	BaseURL     string        `env:"CHAT_BASE_URL" envDefault:"http://localhost/api"`
	Timeout     time.Duration `env:"CHAT_TIMEOUT" envDefault:"15s"`
	RedisAddr   string        `env:"CHAT_REDIS_ADDR"`
	RedisPrefix string        `env:"CHAT_REDIS_PREFIX" envDefault:"cc"`
	LegacyReset bool          `env:"CHAT_LEGACY_RESET"`
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: chatcli <login|ask|threads|messages|rm|whoami|reset|logout> [args]")
		os.Exit(2)
	}

	var cfg cliConfig
	if err := env.Parse(&cfg); err != nil {
		fatal(err)
	}

	clientCfg := chatclient.DefaultConfig()
	clientCfg.HTTP.BaseURL = cfg.BaseURL
	clientCfg.HTTP.Timeout = cfg.Timeout
	clientCfg.Session.RedisPrefix = cfg.RedisPrefix
	clientCfg.Reset.LegacyPaths = cfg.LegacyReset

	ctx := context.Background()

	builder := chatclient.New().WithConfig(clientCfg)
	if cfg.RedisAddr != "" {
		builder = builder.WithRedis(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	}

	client, err := builder.Build(ctx)
	if err != nil {
		fatal(err)
	}

	client.OnUnauthorized(func() {
		fmt.Fprintln(os.Stderr, "session expired, please log in again")
	})

	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "login":
		err = runLogin(ctx, client, args)
	case "ask":
		err = runAsk(ctx, client, args)
	case "threads":
		err = runThreads(ctx, client)
	case "messages":
		err = runMessages(ctx, client, args)
	case "rm":
		err = runDelete(ctx, client, args)
	case "whoami":
		err = runWhoami(ctx, client)
	case "reset":
		err = runReset(ctx, client, args)
	case "logout":
		err = client.Logout(ctx)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
		os.Exit(2)
	}
	if err != nil {
		fatal(err)
	}
}

func runLogin(ctx context.Context, client *chatclient.Client, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: chatcli login <email-or-username> <password>")
	}
	user, err := client.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %s (role %s)\n", args[0], user.Role)
	return nil
}

func runAsk(ctx context.Context, client *chatclient.Client, args []string) error {
	fs := flag.NewFlagSet("ask", flag.ContinueOnError)
	threadID := fs.String("thread", "", "continue an existing thread")
	if err := fs.Parse(args); err != nil {
		return err
	}
	query := strings.Join(fs.Args(), " ")
	if query == "" {
		return fmt.Errorf("usage: chatcli ask [-thread id] <query...>")
	}

	answer, err := client.Ask(ctx, query, *threadID)
	if err != nil {
		return err
	}

	fmt.Println(answer.Response)
	for _, c := range answer.Citations {
		fmt.Printf("  [%s] %s p.%s\n", c.ID, c.Document.Name, c.Location.PageLabel)
	}
	fmt.Printf("(thread %s)\n", answer.ThreadID)
	return nil
}

func runThreads(ctx context.Context, client *chatclient.Client) error {
	threads, err := client.Threads(ctx)
	if err != nil {
		return err
	}
	for _, th := range threads {
		fmt.Printf("%s\t%s\n", th.ThreadID, th.Title)
	}
	return nil
}

func runMessages(ctx context.Context, client *chatclient.Client, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: chatcli messages <thread-id>")
	}
	messages, err := client.Messages(ctx, args[0])
	if err != nil {
		return err
	}
	for _, m := range messages {
		fmt.Printf("%s: %s\n", m.Role, m.Content)
	}
	return nil
}

func runDelete(ctx context.Context, client *chatclient.Client, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: chatcli rm <thread-id>")
	}
	return client.DeleteThread(ctx, args[0])
}

func runWhoami(ctx context.Context, client *chatclient.Client) error {
	user, err := client.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s> role=%s\n", user.Username, user.Email, user.Role)
	return nil
}

func runReset(ctx context.Context, client *chatclient.Client, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: chatcli reset <email>")
	}

	flow := client.NewResetFlow()
	msg, err := flow.RequestCode(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Println(msg)
	if otp := flow.DevOTP(); otp != "" {
		fmt.Printf("dev-mode code: %s\n", otp)
	}

	reader := bufio.NewReader(os.Stdin)
	otp, err := prompt(reader, "one-time code: ")
	if err != nil {
		return err
	}
	if err := flow.VerifyCode(ctx, otp); err != nil {
		return err
	}

	newPassword, err := prompt(reader, "new password: ")
	if err != nil {
		return err
	}
	msg, err = flow.ResetPassword(ctx, otp, newPassword)
	if err != nil {
		return err
	}
	fmt.Println(msg)
	return nil
}

func prompt(reader *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
