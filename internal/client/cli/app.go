package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/bridgekeeper/internal/client/client"
	"github.com/dmitrijs2005/bridgekeeper/internal/client/config"
	"github.com/dmitrijs2005/bridgekeeper/internal/client/credential"
	"github.com/dmitrijs2005/bridgekeeper/internal/client/keyring"
	"github.com/dmitrijs2005/bridgekeeper/internal/client/repositories"
	"github.com/dmitrijs2005/bridgekeeper/internal/client/services"
	"github.com/dmitrijs2005/bridgekeeper/internal/client/workflow"
	"github.com/dmitrijs2005/bridgekeeper/internal/common"
	"github.com/dmitrijs2005/bridgekeeper/internal/logging"
	"github.com/zeebo/errs"
)

type App struct {
	config *config.Config
	log    logging.Logger
	out    io.Writer
}

// NewApp returns an App logging to log. Prompts are written to out.
func NewApp(c *config.Config, log logging.Logger, out io.Writer) *App {
	return &App{config: c, log: log, out: out}
}

// Run executes the workflow once.
func (a *App) Run(ctx context.Context) (err error) {
	if err := a.promptPassword(); err != nil {
		return err
	}

	repos, err := repositories.Open(ctx, a.config.KeyRingBackend, a.config.KeyRingPath)
	if err != nil {
		return fmt.Errorf("%w: open key ring: %w", client.ErrIO, err)
	}
	defer func() { err = errs.Combine(err, repos.Close()) }()

	kr, err := keyring.Open(ctx, repos, []byte(a.config.KeyRingPassphrase))
	if err != nil {
		return err
	}
	defer kr.Close()

	dial := services.NewDialer(a.config.BridgeURL,
		client.WithConcurrency(a.config.Concurrency),
		client.WithTimeout(a.config.RequestTimeout),
	)
	auth := services.NewAuthService(dial, credential.NewFileStore(a.config.KeyPath, a.config.KeyPassphrase))

	if a.config.Register {
		u, err := auth.Register(ctx, a.config.Email, a.config.Password)
		if err != nil {
			return fmt.Errorf("register: %w", err)
		}
		a.log.Info(ctx, "account created", "email", u.Email, "id", u.ID)
	}

	demo, err := workflow.NewDemo(workflow.DemoConfig{
		Email:          a.config.Email,
		Password:       a.config.Password,
		BucketName:     a.config.BucketName,
		UploadBucketID: a.config.UploadBucketID,
		UploadFile:     a.config.UploadFile,
	}, auth, a.services(kr), a.log)
	if err != nil {
		return err
	}

	a.log.Info(ctx, "starting workflow", "bridge", a.config.BridgeURL, "concurrency", a.config.Concurrency)
	return demo.Pipeline().Run(ctx)
}

func (a *App) services(kr *keyring.KeyRing) workflow.ServiceFactory {
	return func(c client.Client) *workflow.Services {
		return &workflow.Services{
			Keys:    services.NewKeyService(c),
			Buckets: services.NewBucketService(c),
			Upload: services.NewUploadService(c, kr, a.config.TempDir, a.log,
				services.WithStateObserver(func(s services.UploadState) {
					a.log.Info(context.Background(), "upload state", "state", string(s))
				})),
		}
	}
}

func (a *App) promptPassword() error {
	if a.config.Email == "" || a.config.Password != "" || !stdinIsTerminal() {
		return nil
	}
	pw, err := GetPassword(a.out, fmt.Sprintf("Password for %s: ", a.config.Email))
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	a.config.Password = string(pw)
	common.WipeByteArray(pw)
	return nil
}
