package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"

	"welux-admin/internal/backend"
	"welux-admin/internal/config"
	"welux-admin/internal/events"
	"welux-admin/internal/httpapi"
	"welux-admin/internal/notify"
	"welux-admin/internal/poll"
	"welux-admin/internal/screens"
	"welux-admin/internal/secrets"
	"welux-admin/internal/session"
	"welux-admin/internal/store"
	"welux-admin/internal/supabase"
	"welux-admin/internal/util"
	"welux-admin/internal/youtube"
)

func main() {
	// Engine data dir: use env if provided (the shell can pass one), else local folder.
	config.LoadDotEnv(".")
	dataDir := os.Getenv(config.EnvDataDir)
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}
	config.LoadDotEnv(dataDir)

	// One engine per data dir; a second one would fight over the db and keyring session.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("level=error msg=\"lock failed\" err=%v", err)
	}
	if !locked {
		log.Fatalf("level=error msg=\"another engine is running\" data_dir=%s", dataDir)
	}
	defer lock.Unlock()

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		cfg, err := config.Load(userCfgPath)
		if err != nil {
			return config.Config{}, err
		}
		config.ApplyEnv(&cfg, os.Getenv)
		cfg, vr := config.NormalizeAndValidate(cfg)
		for _, w := range vr.Warnings {
			log.Printf("level=warn msg=\"config\" detail=%q", w)
		}
		if !vr.OK() {
			return config.Config{}, fmt.Errorf("invalid config: %v", vr.Errors)
		}
		return cfg, nil
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	cfgVal.Store(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, checkpoint, closeBackend, err := openBackend(ctx, cfg, dataDir)
	if err != nil {
		log.Fatalf("level=error msg=\"backend init failed\" driver=%s err=%v", cfg.Backend.Driver, err)
	}
	defer closeBackend()

	hub := events.NewHub()
	gate := session.NewGate(b, hub)
	gate.Init(ctx)
	defer gate.Close()

	opts := screens.AppOptions{DashboardDays: cfg.Dashboard.Days}
	if cfg.Stream.TitleLookup {
		tf := youtube.NewTitleFetcher(util.NewHostLimiter(1, 2))
		tf.SetTimeout(time.Duration(cfg.Stream.LookupTimeoutSeconds) * time.Second)
		opts.Titles = tf
	}
	app := screens.NewApp(b, gate, hub, opts)

	var watchStatus atomic.Value // stores poll.Status
	watchStatus.Store(poll.Status{Enabled: cfg.Watch.Seconds > 0})
	watcher := poll.NewWatcher(b, newNotifier(cfg), hub)
	poll.StartPoller(ctx, watcher, &cfgVal, &watchStatus, func() bool {
		return gate.Stack() == session.StackTabs
	})

	router := httpapi.NewRouter(httpapi.Deps{
		App:              app,
		Hub:              hub,
		Driver:           cfg.Backend.Driver,
		CfgVal:           &cfgVal,
		WatchStatus:      &watchStatus,
		UserCfgPath:      userCfgPath,
		LoadCfg:          loadCfg,
		RunWatch:         watcher.PollOnce,
		Checkpoint:       checkpoint,
		SetTelegramToken: setTelegramToken,
	})

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}

	srv := &http.Server{
		Handler:           httpapi.Chain(router, httpapi.RequestID, httpapi.Recover, httpapi.AccessLog, httpapi.Cors),
		ReadHeaderTimeout: 5 * time.Second,
	}

	token, err := randomToken(32)
	if err != nil {
		log.Fatal(err)
	}
	router.HandleFunc("/shutdown", shutdownHandler(token, srv.Shutdown)).Methods(http.MethodPost)
	// The shell reads this line from stdout to learn the shutdown token.
	fmt.Printf("WELUX_SHUTDOWN_TOKEN=%s\n", token)

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()

	log.Printf("level=info msg=\"engine listening\" addr=http://%s backend=%s config=%s", addr, cfg.Backend.Driver, userCfgPath)
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	log.Printf("level=info msg=\"engine stopped\"")
}

// openBackend builds the configured backend. checkpoint is nil unless the
// backend is the local database.
func openBackend(ctx context.Context, cfg config.Config, dataDir string) (b backend.Backend, checkpoint func(context.Context) error, closeFn func(), err error) {
	switch cfg.Backend.Driver {
	case config.DriverLocal:
		dbPath := cfg.Local.DBFile
		if !filepath.IsAbs(dbPath) {
			dbPath = filepath.Join(dataDir, dbPath)
		}
		db, err := store.Open(dbPath)
		if err != nil {
			return nil, nil, nil, err
		}
		s, err := store.New(db, secrets.KeyringSessionStore{Account: secrets.SessionAccount("local:" + dbPath)})
		if err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
		if cfg.Local.AdminEmail != "" && cfg.Local.AdminPassword != "" {
			created, err := s.EnsureAdmin(ctx, cfg.Local.AdminEmail, cfg.Local.AdminPassword)
			if err != nil {
				_ = db.Close()
				return nil, nil, nil, err
			}
			if created {
				log.Printf("level=info msg=\"admin account created\" email=%s", cfg.Local.AdminEmail)
			}
		}
		if err := s.EnsureStreamConfig(ctx); err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
		log.Printf("level=info msg=\"local backend ready\" db=%s", dbPath)
		return s, db.Checkpoint, func() { _ = db.Close() }, nil

	default:
		c := supabase.New(cfg.Backend.URL, cfg.Backend.AnonKey,
			supabase.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Backend.TimeoutSeconds) * time.Second}),
			supabase.WithLimiter(util.NewHostLimiter(cfg.Backend.RequestsPerSecond, cfg.Backend.Burst)),
			supabase.WithSessionStore(secrets.KeyringSessionStore{Account: secrets.SessionAccount(cfg.Backend.URL)}),
		)
		return c, nil, func() {}, nil
	}
}

// newNotifier returns the Telegram notifier when it is enabled and usable.
// The token comes from the environment, then the keyring.
func newNotifier(cfg config.Config) notify.Notifier {
	tg := cfg.Notify.Telegram
	if !tg.Enabled {
		return notify.Nop{}
	}
	token := tg.Token
	if token == "" {
		t, err := secrets.GetTelegramToken()
		if err != nil {
			log.Printf("level=warn msg=\"telegram token unavailable\" err=%v", err)
			return notify.Nop{}
		}
		token = t
	}
	n, err := notify.NewTelegram(token, tg.ChatID, tg.Endpoint, &http.Client{Timeout: 15 * time.Second})
	if err != nil {
		log.Printf("level=warn msg=\"telegram notifier disabled\" err=%v", err)
		return notify.Nop{}
	}
	log.Printf("level=info msg=\"telegram notifier ready\" chat_id=%d", tg.ChatID)
	return n
}

// setTelegramToken stores token in the keyring; empty clears it. The
// notifier picks it up on the next start.
func setTelegramToken(token string) error {
	if token == "" {
		return secrets.DeleteTelegramToken()
	}
	return secrets.SetTelegramToken(token)
}
