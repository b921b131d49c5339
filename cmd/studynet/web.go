package main

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/studynet/studynet/auth"
	"github.com/studynet/studynet/gin"
)

func init() {
	RootCmd.AddCommand(&WebCommand)
}

var WebCommand = cobra.Command{
	Use:   "web",
	Short: "Start the web server",
	Long:  "Start the web server",
	Run: func(cmd *cobra.Command, args []string) {
		srv := gin.NewServer()

		auth.RegisterUserHTTP(srv, userService, generator, signingKey)

		authenticator := gin.Authenticator{
			Encoder:    encoder,
			Repository: userStore,
		}

		collectionHandler := gin.CollectionHandler{
			Authenticator: authenticator,
			Service:       collectionService,
		}
		collectionHandler.RegisterRoutes(srv.Router())

		highlightHandler := gin.HighlightHandler{
			Authenticator: authenticator,
			Service:       highlightService,
		}
		highlightHandler.RegisterRoutes(srv.Router())

		summaryHandler := gin.SummaryHandler{
			Authenticator: authenticator,
			Service:       summaryService,
			Quizzes:       quizService,
		}
		summaryHandler.RegisterRoutes(srv.Router())

		quizHandler := gin.QuizHandler{
			Authenticator: authenticator,
			Service:       quizService,
		}
		quizHandler.RegisterRoutes(srv.Router())

		attemptHandler := gin.AttemptHandler{
			Authenticator: authenticator,
			Service:       attemptService,
		}
		attemptHandler.RegisterRoutes(srv.Router())

		addr := webAddr
		if addr == "" {
			addr = ":1705"
		}
		logger.Print("server started, listening on ", addr)
		logger.Fatal(http.ListenAndServe(addr, srv))
	},
}
