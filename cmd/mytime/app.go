package main

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/stekc/myTimeAPI/internal/profile"
	"github.com/stekc/myTimeAPI/plugin/credential"
	"github.com/stekc/myTimeAPI/plugin/notify"
	"github.com/stekc/myTimeAPI/plugin/wfm"
	"github.com/stekc/myTimeAPI/server/runner/openshift"
	"github.com/stekc/myTimeAPI/server/service/schedule"
	"github.com/stekc/myTimeAPI/store"
	"github.com/stekc/myTimeAPI/store/db"
)

// app holds the collaborators shared by every command.
type app struct {
	profile  *profile.Profile
	service  schedule.Service
	notifier *notify.Dispatcher
}

func newApp(p *profile.Profile) (*app, error) {
	loc, err := p.Location()
	if err != nil {
		return nil, err
	}

	client := wfm.NewClient(wfm.Config{
		BaseURL:           p.BaseURL,
		StoreURL:          p.StoreURL,
		APIKey:            p.APIKey,
		EmployeeID:        p.EmployeeID,
		StoreNumber:       p.StoreNumber,
		Timeout:           p.UpstreamTimeout,
		RequestsPerSecond: p.UpstreamRateLimit,
	})

	var credentials credential.Store
	switch p.CredentialBackend {
	case "keyring":
		credentials = credential.NewKeyringStore(p.EmployeeID)
	default:
		credentials = credential.NewFileStore(afero.NewOsFs(), p.CredentialFile)
	}
	provider := credential.NewProvider(credentials, client, p.TokenCommand)

	service := schedule.NewService(schedule.Dependencies{
		Tokens:      provider,
		Credentials: provider,
		Schedules:   client,
		Shifts:      client,
		Stores:      wfm.NewStoreDirectory(client, loc),
	},
		schedule.WithLocation(loc),
		schedule.WithCacheTTL(p.CacheTTL),
		schedule.WithUpstreamTimeout(p.UpstreamTimeout),
		schedule.WithLogger(slog.Default()),
	)

	notifier := notify.New(notify.Config{
		Pushover: notify.PushoverConfig{
			AppToken: p.PushoverAppToken,
			UserKey:  p.PushoverUserKey,
		},
		Webhook: notify.WebhookConfig{
			URL:    p.WebhookURL,
			Secret: p.WebhookSecret,
		},
	})
	slog.Debug("notification channels", "channels", notifier.Channels())

	return &app{
		profile:  p,
		service:  service,
		notifier: notifier,
	}, nil
}

// openStore opens and migrates the seen shift database.
func (a *app) openStore(ctx context.Context) (*store.Store, error) {
	driver, err := db.NewDBDriver(a.profile)
	if err != nil {
		return nil, err
	}
	st := store.New(driver, a.profile)
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, errors.Wrap(err, "failed to migrate database")
	}
	return st, nil
}

func (a *app) newWatcher(st *store.Store) (*openshift.Runner, error) {
	return openshift.NewRunner(a.service, st, a.notifier, openshift.Config{
		Interval: a.profile.WatchInterval,
		Weeks:    a.profile.WatchWeeks,
		Filter:   a.profile.WatchFilter,
	})
}
