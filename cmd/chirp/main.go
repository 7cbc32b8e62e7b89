package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chirpsocial/chirp-go/internal/api"
	"github.com/chirpsocial/chirp-go/internal/config"
	"github.com/chirpsocial/chirp-go/internal/models"
	"github.com/chirpsocial/chirp-go/internal/timeline"
	"github.com/chirpsocial/chirp-go/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	opts := []api.Option{}
	if token := pickToken(cfg); token != "" {
		opts = append(opts, api.WithToken(token))
	}
	client, err := api.New(cfg.APIURL, opts...)
	if err != nil {
		log.Fatalf("client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	viewer, err := authenticate(ctx, client, cfg)
	cancel()
	if err != nil {
		if api.IsUnauthorized(err) {
			fmt.Fprintln(os.Stderr, "not logged in: set CHIRP_EMAIL and CHIRP_PASSWORD (or CHIRP_TOKEN)")
			os.Exit(1)
		}
		log.Fatalf("login: %v", err)
	}

	newFeed := func(scope timeline.Scope) tui.Feed {
		return timeline.New(client, scope, timeline.WithPageSize(cfg.PageSize))
	}

	model := tui.NewModel(newFeed(timeline.Home()), newFeed, client, *viewer)
	program := tea.NewProgram(model, tea.WithAltScreen())

	final, err := program.Run()
	if err != nil {
		log.Fatalf("tui: %v", err)
	}
	if m, ok := final.(tui.Model); ok && m.QuitHint() != "" {
		fmt.Fprintln(os.Stderr, m.QuitHint())
		os.Exit(1)
	}
}

// authenticate logs in with email/password when configured, otherwise
// validates whatever token the client already carries.
func authenticate(ctx context.Context, client *api.Client, cfg config.Config) (*models.User, error) {
	if cfg.Email != "" && cfg.Password != "" {
		auth, err := client.Login(ctx, cfg.Email, cfg.Password)
		if err != nil {
			return nil, err
		}
		if auth.Token != "" {
			if err := cfg.SaveToken(auth.Token); err != nil {
				log.Printf("could not save token: %v", err)
			}
		}
		return &auth.User, nil
	}
	return client.Me(ctx)
}

func pickToken(cfg config.Config) string {
	if cfg.Token != "" {
		return cfg.Token
	}
	return cfg.SavedToken()
}
