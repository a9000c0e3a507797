package main

import (
	"flag"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"toes-server/internal/config"
	"toes-server/internal/mux"
	"toes-server/pkg/db"
	"toes-server/pkg/history"
	"toes-server/pkg/room"
	"toes-server/pkg/shuffle"
	"toes-server/pkg/toes"
)

const readTimeout = time.Second * 5
const writeTimeout = time.Second * 10

// Version is the server version
var Version = "v0.0.0-dev"

var addr = flag.String("addr", "", "the listen address, overrides the configuration")
var noHistory = flag.Bool("no-history", false, "run without Postgres, nothing is recorded")

func main() {
	flag.Parse()
	setupLogger()

	cfg := config.Instance()

	hasher, err := shuffle.HasherByName(cfg.Game.Hasher)
	if err != nil {
		logrus.WithError(err).Fatal("could not load hasher")
	}

	shuffler, err := shuffle.New(hasher)
	if err != nil {
		logrus.WithError(err).Fatal("could not load shuffler")
	}

	roomCfg := room.Config{
		Engine:        toes.NewEngine(logrus.StandardLogger(), shuffler),
		Seeds:         shuffle.CryptoSeeds{},
		Logger:        logrus.StandardLogger(),
		ChooseTimeout: cfg.Game.ChooseTimeout,
		AutoAdvance:   cfg.Game.AutoAdvance,
		RevealDelay:   cfg.Game.RevealDelay,
	}

	muxOpts := mux.Options{
		Version:     Version,
		DefaultAnte: cfg.Game.Ante,
	}

	if !*noHistory {
		// run the db migrations
		db.Migrate()

		store := history.NewStore(db.Instance())
		roomCfg.Recorder = store
		muxOpts.History = store
	}

	pitBoss := room.NewPitBoss(roomCfg)
	muxOpts.PitBoss = pitBoss

	c := cors.New(cors.Options{
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
	})

	listenAddr := cfg.Addr
	if *addr != "" {
		listenAddr = *addr
	}

	srv := &http.Server{
		Addr:         listenAddr,
		Handler:      loggingHandler(c.Handler(mux.NewMux(muxOpts))),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	logrus.WithFields(logrus.Fields{
		"addr":   srv.Addr,
		"hasher": hasher.Name(),
	}).Info("listening")
	logrus.Fatal(srv.ListenAndServe())
}

func loggingHandler(next http.Handler) http.Handler {
	if !config.Instance().AccessLogs {
		return next
	}

	return handlers.CombinedLoggingHandler(os.Stdout, next)
}

func setupLogger() {
	if lvl := config.Instance().LogLevel; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
