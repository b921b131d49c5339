package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/studynet/studynet"
	"github.com/studynet/studynet/aigen"
	"github.com/studynet/studynet/auth"
	"github.com/studynet/studynet/bleve"
	"github.com/studynet/studynet/bolt"
	"github.com/studynet/studynet/jwt"
	"github.com/studynet/studynet/log"
	"github.com/studynet/studynet/services"
)

var (
	// flags
	verbose bool
	env     string

	// logger
	logger log.Logger

	// auth
	signingKey []byte
	encoder    *jwt.EncodeDecoder

	// drivers
	boltDriver     *bolt.Driver
	highlightIndex *bleve.HighlightIndex

	// stores
	userStore       *bolt.UserStore
	resetTokenStore *bolt.ResetTokenStore
	collectionStore *bolt.CollectionStore
	highlightStore  *bolt.HighlightStore
	summaryStore    *bolt.SummaryStore
	quizStore       *bolt.QuizStore
	attemptStore    *bolt.AttemptStore

	// generation
	generator aigen.Generator

	// web
	webAddr string

	// services
	userService       *auth.UserService
	collectionService *services.CollectionService
	highlightService  *services.HighlightService
	summaryService    *services.SummaryService
	quizService       *services.QuizService
	attemptService    *services.AttemptService
)

type Configuration struct {
	Auth struct {
		Key string `toml:"key"`
	} `toml:"auth"`
	Bolt struct {
		Store string `toml:"store"`
	} `toml:"bolt"`
	Bleve struct {
		Store string `toml:"store"`
	} `toml:"bleve"`
	AIGen aigen.Config `toml:"aigen"`
	Web   struct {
		Addr string `toml:"addr"`
	} `toml:"web"`
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose mode")
	RootCmd.PersistentFlags().StringVar(&env, "env", "dev", "environment")
}

var RootCmd = cobra.Command{
	Use:   "studynet",
	Short: "Capture highlights, build collections, study with quizzes",
	Long:  "Capture highlights, build collections, study with quizzes",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Load configuration
		cfgData, err := os.ReadFile(fmt.Sprintf("configuration/config.%s.toml", env))
		if err != nil {
			fmt.Println("error reading configuration:", err)
			return
		}

		var cfg Configuration
		err = toml.Unmarshal(cfgData, &cfg)
		if err != nil {
			fmt.Println("error unmarshalling configuration:", err)
			return
		}

		// Create logger
		logger = log.New(env)

		// Create encoder
		keyData, err := os.ReadFile(cfg.Auth.Key)
		if err != nil {
			logger.Fatal("could not open key file:", err)
		}
		var key studynet.SigningKey
		err = json.Unmarshal(keyData, &key)
		if err != nil {
			logger.Fatal("could not read key file:", err)
		}
		signingKey = []byte(key.Key)
		encoder = jwt.NewEncodeDecoder(signingKey)

		// Create stores
		boltDriver = &bolt.Driver{}
		if err := boltDriver.Open(cfg.Bolt.Store); err != nil {
			logger.Fatal("could not open store:", err)
		}
		userStore = &bolt.UserStore{Driver: boltDriver}
		resetTokenStore = &bolt.ResetTokenStore{Driver: boltDriver}
		collectionStore = &bolt.CollectionStore{Driver: boltDriver}
		highlightStore = &bolt.HighlightStore{Driver: boltDriver}
		summaryStore = &bolt.SummaryStore{Driver: boltDriver}
		quizStore = &bolt.QuizStore{Driver: boltDriver}
		attemptStore = &bolt.AttemptStore{Driver: boltDriver}

		// Create index
		highlightIndex = &bleve.HighlightIndex{}
		if err := highlightIndex.Open(cfg.Bleve.Store); err != nil {
			logger.Fatal("could not open index:", err)
		}

		// Create generator
		generator = aigen.NewService(cfg.AIGen, logger)

		webAddr = cfg.Web.Addr

		// Create services
		userService = auth.NewUserService(userStore, resetTokenStore, encoder)
		collectionService = services.NewCollectionService(
			collectionStore, highlightStore, summaryStore, quizStore, attemptStore, userStore,
		)
		highlightService = services.NewHighlightService(
			highlightStore, collectionStore, highlightIndex, logger,
		)
		summaryService = services.NewSummaryService(
			summaryStore, collectionStore, highlightStore, quizStore, attemptStore, generator,
		)
		quizService = services.NewQuizService(
			quizStore, attemptStore, summaryStore, collectionStore, generator,
		)
		attemptService = services.NewAttemptService(
			attemptStore, quizStore, summaryStore, collectionStore, userStore,
		)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if highlightIndex != nil {
			highlightIndex.Close()
		}
		if boltDriver != nil {
			boltDriver.Close()
		}
	},
}
