package main

import (
	"encoding/json"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/signroom/signroom/errors"
	"github.com/signroom/signroom/roster"
	"github.com/signroom/signroom/roster/bolt"
)

func init() {
	SigneeCommand.AddCommand(&SigneeAllCommand)
	SigneeCommand.AddCommand(&SigneeAddCommand)
	SigneeCommand.AddCommand(&SigneeDeleteCommand)

	inheritPersistentPreRun(&SigneeCommand)
	inheritPersistentPreRun(&SigneeAllCommand)
	inheritPersistentPreRun(&SigneeAddCommand)
	inheritPersistentPreRun(&SigneeDeleteCommand)

	RootCmd.AddCommand(&SigneeCommand)
}

func createRosterService() (*roster.Service, func(), error) {
	driver := &bolt.Driver{}
	if err := driver.Open(config.Bolt.Store); err != nil {
		return nil, func() {}, errors.New("error opening db", errors.WithCause(err))
	}

	service := roster.NewService(&bolt.UserRepository{Driver: driver}, logger)
	return service, func() { driver.Close() }, nil
}

var SigneeCommand = cobra.Command{
	Use:   "signee",
	Short: "Manage the signing roster",
	Long:  "Manage the signing roster",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var SigneeAllCommand = cobra.Command{
	Use:   "all",
	Short: "List all the users of the room",
	Long:  "List all the users of the room",
	RunE: func(cmd *cobra.Command, args []string) error {
		service, f, err := createRosterService()
		defer f()
		if err != nil {
			return err
		}

		if err := service.Bootstrap(); err != nil {
			return err
		}

		users, err := service.List()
		if err != nil {
			return errors.New("error getting users", errors.WithCause(err))
		}

		for _, user := range users {
			data, err := json.Marshal(user)
			if err != nil {
				return err
			}
			cmd.Println(string(data))
		}
		return nil
	},
}

var SigneeAddCommand = cobra.Command{
	Use:   "add",
	Short: "Add a signee to the roster",
	Long:  "Add a signee to the roster, takes two arguments: name and email",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 2 {
			return errors.New("add takes 2 arguments: the name and the email of the signee")
		}

		service, f, err := createRosterService()
		defer f()
		if err != nil {
			return err
		}

		if err := service.Bootstrap(); err != nil {
			return err
		}

		user, err := service.AddSignee(args[0], args[1])
		if err != nil {
			return err
		}

		data, err := json.Marshal(user)
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	},
}

var SigneeDeleteCommand = cobra.Command{
	Use:   "delete",
	Short: "Delete a user from the roster",
	Long:  "Delete a user from the roster, takes the id of the user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("delete takes 1 argument: the id of the user")
		}

		id, err := strconv.Atoi(args[0])
		if err != nil {
			return errors.New("id should be an integer", errors.WithCause(err))
		}

		service, f, err := createRosterService()
		defer f()
		if err != nil {
			return err
		}

		next, err := service.Delete(id)
		if err != nil {
			return err
		}

		logger.Printf("deleted user %d, next signee is %s", id, next.Name)
		return nil
	},
}
