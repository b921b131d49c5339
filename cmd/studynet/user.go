package main

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	UserCommand.AddCommand(&UserAllCommand)
	UserCommand.AddCommand(&UserPromoteCommand)
	UserCommand.AddCommand(&TokenCommand)
	RootCmd.AddCommand(&UserCommand)
}

var UserCommand = cobra.Command{
	Use:   "user",
	Short: "Print a user",
	Long:  "Print a user from its id",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			logger.Fatal("user wants 1 argument: the id of the user")
		}

		id, err := strconv.Atoi(args[0])
		if err != nil {
			logger.Fatal("error converting user id: ", err)
		}

		user, err := userStore.Get(id)
		if err != nil {
			logger.Fatal("error retrieving user:", err)
		}

		data, err := json.Marshal(user)
		if err != nil {
			logger.Fatal(err)
		}
		logger.Print(string(data))
	},
}

var UserAllCommand = cobra.Command{
	Use:   "all",
	Short: "Print all users",
	Long:  "Print all users",
	Run: func(cmd *cobra.Command, args []string) {
		users, err := userStore.List()
		if err != nil {
			logger.Fatal("error listing users:", err)
		}

		for _, user := range users {
			data, err := json.Marshal(user)
			if err != nil {
				logger.Fatal(err)
			}
			logger.Print(string(data))
		}
	},
}

// UserPromoteCommand grants admin directly on the store. It exists to
// bootstrap the first admin, which cannot be done through the API since
// granting admin requires an admin caller.
var UserPromoteCommand = cobra.Command{
	Use:   "promote",
	Short: "Grant admin to a user",
	Long:  "Grant admin to a user from its id, bypassing the admin-caller check",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			logger.Fatal("user promote wants 1 argument: the id of the user")
		}

		id, err := strconv.Atoi(args[0])
		if err != nil {
			logger.Fatal("error converting user id: ", err)
		}

		user, err := userStore.Get(id)
		if err != nil {
			logger.Fatal("error retrieving user:", err)
		}
		if user.ID == 0 {
			logger.Fatal("no user with id ", id)
		}

		now := time.Now()
		user.IsAdmin = true
		user.AdminGrantedAt = &now
		user.AdminGrantReason = "bootstrap"
		if err := userStore.Upsert(&user); err != nil {
			logger.Fatal("error saving user:", err)
		}

		logger.Print("user ", user.Username, " is now an admin")
	},
}

var TokenCommand = cobra.Command{
	Use:   "token",
	Short: "Print a token for a user",
	Long:  "Print a token for a user from its id",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			logger.Fatal("user token wants 1 argument: the id of the user")
		}

		id, err := strconv.Atoi(args[0])
		if err != nil {
			logger.Fatal("error converting user id: ", err)
		}

		token, err := encoder.Encode(id)
		if err != nil {
			logger.Fatal(err)
		}

		logger.Print(token)
	},
}
