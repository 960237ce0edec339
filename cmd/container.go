package cmd

import (
	"os"

	"github.com/relmint/relmint/internal/config"
	"github.com/relmint/relmint/internal/logger"
	"github.com/relmint/relmint/internal/orchestrator"
	"github.com/relmint/relmint/internal/repository"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// container holds all the dependencies for the application.

type container struct {
	cfg *config.Config
	log *zap.Logger

	fsRepo    repository.FileSystemRepository
	gitRepo   repository.GitRepository
	publisher repository.ReleasePublisher
	lock      *repository.TransactionLock
}

// newContainer creates a new container with all the dependencies.
func newContainer() (*container, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(os.Getenv("RELMINT_DEBUG") == "true")
	if err != nil {
		return nil, err
	}
	fsRepo := repository.FileSystemRepository(afero.NewOsFs())
	gitRepo, err := repository.NewGitRepository(".")
	if err != nil {
		return nil, err
	}

	// Publisher is real only when full GitHub configuration is present;
	// otherwise the pipeline works up to the publish step.
	var publisher repository.ReleasePublisher
	if cfg.GithubToken != "" && cfg.GithubOwner != "" && cfg.GithubRepo != "" {
		publisher, err = repository.NewGithubPublisher(cfg.GithubToken, cfg.GithubOwner, cfg.GithubRepo)
		if err != nil {
			return nil, err
		}
	} else {
		publisher = repository.NewNoopPublisher(cfg.GithubOwner, cfg.GithubRepo)
	}

	return &container{
		cfg:       cfg,
		log:       log,
		fsRepo:    fsRepo,
		gitRepo:   gitRepo,
		publisher: publisher,
		lock:      repository.NewTransactionLock("."),
	}, nil
}

// InitCommands initializes all commands with their dependencies.
func InitCommands() error {
	c, err := newContainer()
	if err != nil {
		return err
	}

	bumpOrch := orchestrator.NewBumpOrchestrator(
		c.gitRepo,
		c.publisher,
		c.fsRepo,
		c.cfg,
		c.lock,
		c.log,
	)
	rootCmd.AddCommand(NewBumpCmd(bumpOrch))

	publishOrch := orchestrator.NewPublishOrchestrator(
		c.gitRepo,
		c.publisher,
		c.fsRepo,
		c.cfg,
		c.log,
	)
	rootCmd.AddCommand(NewPublishCmd(publishOrch))

	rootCmd.AddCommand(newVersionCmd())
	return nil
}
