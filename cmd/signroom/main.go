package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/signroom/signroom/audit"
	auditbleve "github.com/signroom/signroom/audit/bleve"
	signingclient "github.com/signroom/signroom/clients/signing"
	"github.com/signroom/signroom/engine/inmem"
	"github.com/signroom/signroom/log"
	"github.com/signroom/signroom/placement"
	"github.com/signroom/signroom/roster"
	rosterbolt "github.com/signroom/signroom/roster/bolt"
	"github.com/signroom/signroom/session"
	"github.com/signroom/signroom/signing"
	"github.com/signroom/signroom/tracker"
	"github.com/signroom/signroom/web"
)

var (
	addr      = ":8081"
	dbPath    = "data/signroom.bolt.db"
	indexPath = "data/signroom.bleve"
	signerURL = "https://pspdfkit-api.example.com"
	jwtKey    = "no-open-doors"
	docPath   = ""
	stampPath = ""
	pageCount = 4
	env       = "dev"
)

func main() {
	flag.StringVar(&addr, "addr", addr, "address to serve on")
	flag.StringVar(&dbPath, "dbpath", dbPath, "path to the roster db")
	flag.StringVar(&indexPath, "indexpath", indexPath, "path to the audit search index")
	flag.StringVar(&signerURL, "signer", signerURL, "base url of the upstream signing service")
	flag.StringVar(&jwtKey, "key", jwtKey, "jwt signing key")
	flag.StringVar(&docPath, "doc", docPath, "path to the document to load")
	flag.StringVar(&stampPath, "stamp", stampPath, "path to the stamp image sent along when signing")
	flag.IntVar(&pageCount, "pages", pageCount, "number of pages of the demo document")
	flag.StringVar(&env, "env", env, "environment: dev or prod")
	flag.Parse()

	logger := log.New(env)

	driver := rosterbolt.Driver{}
	if err := driver.Open(dbPath); err != nil {
		logger.Fatalf("error opening db: %v", err)
	}
	defer driver.Close()

	index := &auditbleve.RecordIndex{}
	if err := index.Open(indexPath); err != nil {
		logger.Fatalf("error opening audit index: %v", err)
	}
	defer index.Close()

	rosterService := roster.NewService(&rosterbolt.UserRepository{Driver: &driver}, logger)
	if err := rosterService.Bootstrap(); err != nil {
		logger.Fatalf("error bootstrapping roster: %v", err)
	}

	users, err := rosterService.List()
	if err != nil {
		logger.Fatalf("error listing users: %v", err)
	}

	eng := inmem.New(pageCount)
	if docPath != "" {
		data, err := os.ReadFile(docPath)
		if err != nil {
			logger.Fatalf("error reading document: %v", err)
		}
		if _, err := eng.LoadDocument(data); err != nil {
			logger.Fatalf("error loading document: %v", err)
		}
	}

	var stamp []byte
	if stampPath != "" {
		stamp, err = os.ReadFile(stampPath)
		if err != nil {
			logger.Fatalf("error reading stamp image: %v", err)
		}
	}

	sess := session.New(eng, logger, users[0], users)

	tr := tracker.New(logger)
	tr.Attach(eng)
	defer tr.Detach()
	tr.SetCurrentUser(users[0])

	client := signingclient.NewClient(http.DefaultClient, signerURL)
	controller := signing.NewController(eng, client, sess, tr, logger, stamp)
	defer controller.Close()

	srv := web.NewServer(web.Config{
		Engine:      eng,
		Roster:      rosterService,
		Session:     sess,
		Placement:   placement.NewOrchestrator(eng, logger),
		Tracker:     tr,
		Signing:     controller,
		Audit:       audit.NewService(index, logger),
		JWTKey:      []byte(jwtKey),
		Logger:      logger,
		ReleaseMode: env == "prod",
	})

	logger.Printf("serving on %s", addr)
	if err := http.ListenAndServe(addr, srv); err != nil {
		logger.Fatal(err)
	}
}
