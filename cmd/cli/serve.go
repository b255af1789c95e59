package main

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/signroom/signroom/audit"
	auditbleve "github.com/signroom/signroom/audit/bleve"
	signingclient "github.com/signroom/signroom/clients/signing"
	"github.com/signroom/signroom/engine/inmem"
	"github.com/signroom/signroom/placement"
	"github.com/signroom/signroom/session"
	"github.com/signroom/signroom/signing"
	"github.com/signroom/signroom/tracker"
	"github.com/signroom/signroom/web"
)

func init() {
	ServeCommand.PersistentFlags().String("addr", ":1705", "address to serve on")
	ServeCommand.PersistentFlags().Int("pages", 4, "number of pages of the demo document")

	inheritPersistentPreRun(&ServeCommand)
	RootCmd.AddCommand(&ServeCommand)
}

var ServeCommand = cobra.Command{
	Use:   "serve",
	Short: "Serve the signing room",
	Long:  "Serve the signing room",
	RunE: func(cmd *cobra.Command, args []string) error {
		rosterService, f, err := createRosterService()
		defer f()
		if err != nil {
			return err
		}

		if err := rosterService.Bootstrap(); err != nil {
			return err
		}

		users, err := rosterService.List()
		if err != nil {
			return err
		}

		index := &auditbleve.RecordIndex{}
		if err := index.Open(config.Bleve.Index); err != nil {
			return err
		}
		defer index.Close()

		pages, err := cmd.Flags().GetInt("pages")
		if err != nil {
			return err
		}
		eng := inmem.New(pages)

		sess := session.New(eng, logger, users[0], users)

		tr := tracker.New(logger)
		tr.Attach(eng)
		defer tr.Detach()
		tr.SetCurrentUser(users[0])

		client := signingclient.NewClient(http.DefaultClient, config.Signer.URL)
		controller := signing.NewController(eng, client, sess, tr, logger, nil)
		defer controller.Close()

		srv := web.NewServer(web.Config{
			Engine:      eng,
			Roster:      rosterService,
			Session:     sess,
			Placement:   placement.NewOrchestrator(eng, logger),
			Tracker:     tr,
			Signing:     controller,
			Audit:       audit.NewService(index, logger),
			JWTKey:      []byte(config.Auth.Key),
			Logger:      logger,
			ReleaseMode: env == "prod",
		})

		addr := cmd.Flag("addr").Value.String()
		logger.Printf("serving on %s", addr)
		return http.ListenAndServe(addr, srv)
	},
}
