package main

import (
	"fmt"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/axiomesh/axiom-kit/log"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/urfave/cli/v2"

	suifund "github.com/warrenshiv/SuiFund"
	"github.com/warrenshiv/SuiFund/core"
	"github.com/warrenshiv/SuiFund/repo"
)

func start(ctx *cli.Context) error {
	p, err := getRootPath(ctx)
	if err != nil {
		return err
	}
	r, err := repo.Load(p)
	if err != nil {
		return err
	}

	err = log.Initialize(
		log.WithReportCaller(r.Config.Log.ReportCaller),
		log.WithPersist(true),
		log.WithFilePath(filepath.Join(r.Config.RepoRoot, repo.LogsDirName)),
		log.WithFileName(r.Config.Log.Filename),
		log.WithMaxAge(r.Config.Log.MaxAge),
		log.WithRotationTime(r.Config.Log.RotationTime),
	)
	if err != nil {
		return fmt.Errorf("log initialize: %w", err)
	}

	printVersion()

	client, err := ethclient.DialContext(ctx.Context, r.Config.DialUrl)
	if err != nil {
		return err
	}

	platform := core.NewPlatform(r.Config, core.NewMintCustody())

	custodian, err := core.NewCustodian(ctx.Context, r.Config, client, platform)
	if err != nil {
		return fmt.Errorf("new custodian error: %w", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	handleShutdown(custodian, &wg)

	if err := custodian.Start(); err != nil {
		return fmt.Errorf("start custodian failed: %w", err)
	}

	fmt.Println("=============SuiFund custodian is ready=============")

	wg.Wait()

	return nil
}

func printVersion() {
	fmt.Printf("SuiFund version: %s-%s-%s\n", suifund.CurrentVersion, suifund.CurrentBranch, suifund.CurrentCommit)
	fmt.Printf("App build date: %s\n", suifund.BuildDate)
	fmt.Printf("System version: %s\n", suifund.Platform)
	fmt.Printf("Golang version: %s\n", suifund.GoVersion)
	fmt.Println()
}

func handleShutdown(node *core.Custodian, wg *sync.WaitGroup) {
	var stop = make(chan os.Signal, 2)
	signal.Notify(stop, syscall.SIGTERM)
	signal.Notify(stop, syscall.SIGINT)

	go func() {
		<-stop
		fmt.Println("received interrupt signal, shutting down...")
		if err := node.Stop(); err != nil {
			panic(err)
		}
		wg.Done()
		os.Exit(0)
	}()
}
