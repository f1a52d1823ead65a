package main

import (
	"log"
	"os"

	"github.com/Hanish3/college-portal/core"
	"github.com/Hanish3/college-portal/storage/apiclient"
	credstore "github.com/Hanish3/college-portal/storage/credential"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "PORTAL : ", log.LstdFlags)

	creds := credstore.NewFile(core.Conf.CredentialFile)
	cli := commandLine{
		client: apiclient.New(core.Conf.APIBaseURL, core.Conf.APITimeout, creds),
		creds:  creds,
		out:    os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
