package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/signroom/signroom/jwt"
)

func init() {
	inheritPersistentPreRun(&TokenCommand)
	RootCmd.AddCommand(&TokenCommand)
}

var TokenCommand = cobra.Command{
	Use:   "token",
	Short: "Craft a token for a user",
	Long:  "Craft a token for a user",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			logger.Fatal("token wants 1 argument: the id of the user")
		}

		if args[0] == "help" {
			cmd.Help()
			return
		}

		userID, err := strconv.Atoi(args[0])
		if err != nil {
			logger.Fatal(err)
		}

		encoder := jwt.NewEncodeDecoder([]byte(config.Auth.Key))
		token, err := encoder.Encode(userID)
		if err != nil {
			logger.Fatal(err)
		}

		logger.Print(token)
	},
}
