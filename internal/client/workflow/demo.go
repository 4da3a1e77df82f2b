package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bridgekeeper/internal/client/client"
	"github.com/dmitrijs2005/bridgekeeper/internal/client/models"
	"github.com/dmitrijs2005/bridgekeeper/internal/client/services"
	"github.com/dmitrijs2005/bridgekeeper/internal/keypair"
	"github.com/dmitrijs2005/bridgekeeper/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Services are the services bound to an authenticated client.
type Services struct {
	Keys    services.KeyService
	Buckets services.BucketService
	Upload  services.UploadService
}

// ServiceFactory builds Services for an authenticated client.
type ServiceFactory func(c client.Client) *Services

// DemoConfig holds the parameters of the demonstration run.
type DemoConfig struct {
	// Email and Password are used to bootstrap a key pair when no
	// credential is stored yet.
	Email    string
	Password string

	BucketName     string
	UploadBucketID string
	UploadFile     string
}

func (c DemoConfig) validate() error {
	if c.BucketName == "" {
		return fmt.Errorf("%w: bucket name is required", client.ErrValidation)
	}
	if c.UploadBucketID == "" {
		return fmt.Errorf("%w: upload bucket id is required", client.ErrValidation)
	}
	if c.UploadFile == "" {
		return fmt.Errorf("%w: upload file is required", client.ErrValidation)
	}
	return nil
}

// Demo is the state shared by the demonstration steps.
type Demo struct {
	cfg   DemoConfig
	auth  services.AuthService
	build ServiceFactory
	log   logging.Logger

	svc      *Services
	identity *keypair.KeyPair
	newKey   *keypair.KeyPair
	bucket   *models.Bucket
	uploaded *models.StoredFile
}

func NewDemo(cfg DemoConfig, auth services.AuthService, build ServiceFactory, log logging.Logger) (*Demo, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Demo{cfg: cfg, auth: auth, build: build, log: log}, nil
}

// Pipeline returns the demonstration steps:
// authenticate, list keys, add key, list keys, revoke key, list keys,
// list buckets, add bucket, list buckets, remove bucket, list buckets,
// upload file, summarize.
func (d *Demo) Pipeline() *Pipeline {
	return NewPipeline(d.log,
		Step{Name: "authenticate", Run: d.authenticate},
		Step{Name: "list keys", Run: d.listKeys},
		Step{Name: "add key", Run: d.addKey},
		Step{Name: "list keys", Run: d.listKeys},
		Step{Name: "revoke key", Run: d.revokeKey},
		Step{Name: "list keys", Run: d.listKeys},
		Step{Name: "list buckets", Run: d.listBuckets},
		Step{Name: "add bucket", Run: d.addBucket},
		Step{Name: "list buckets", Run: d.listBuckets},
		Step{Name: "remove bucket", Run: d.removeBucket},
		Step{Name: "list buckets", Run: d.listBuckets},
		Step{Name: "upload file", Run: d.uploadFile},
		Step{Name: "summarize", Run: d.summarize},
	)
}

// Uploaded returns the file stored by the upload step, if it ran.
func (d *Demo) Uploaded() *models.StoredFile {
	return d.uploaded
}

func (d *Demo) authenticate(ctx context.Context) error {
	c, kp, err := d.auth.Login(ctx)
	if errors.Is(err, client.ErrAuthentication) && d.cfg.Email != "" && d.cfg.Password != "" {
		d.log.Info(ctx, "no usable credential, bootstrapping a key pair", "email", d.cfg.Email)
		c, kp, err = d.auth.BootstrapKeyPair(ctx, d.cfg.Email, d.cfg.Password)
	}
	if err != nil {
		return err
	}

	d.identity = kp
	d.svc = d.build(c)
	d.log.Info(ctx, "authenticated with key pair", "pubkey", kp.PublicKey())
	return nil
}

func (d *Demo) listKeys(ctx context.Context) error {
	keys, err := d.svc.Keys.List(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		d.log.Info(ctx, "no keys registered")
	}
	for _, k := range keys {
		d.log.Info(ctx, "public key", "key", k.Key, "user", k.User)
	}
	return nil
}

func (d *Demo) addKey(ctx context.Context) error {
	kp, err := d.svc.Keys.Generate()
	if err != nil {
		return err
	}
	if err := d.svc.Keys.Register(ctx, kp); err != nil {
		return err
	}
	d.newKey = kp
	d.log.Info(ctx, "key registered", "pubkey", kp.PublicKey())
	return nil
}

func (d *Demo) revokeKey(ctx context.Context) error {
	if err := d.svc.Keys.Revoke(ctx, d.newKey); err != nil {
		return err
	}
	d.log.Info(ctx, "key revoked", "pubkey", d.newKey.PublicKey())
	return nil
}

func (d *Demo) listBuckets(ctx context.Context) error {
	buckets, err := d.svc.Buckets.List(ctx)
	if errors.Is(err, client.ErrEmptyResult) {
		d.log.Info(ctx, "no buckets")
		return nil
	}
	if err != nil {
		return err
	}
	for _, b := range buckets {
		d.log.Info(ctx, "bucket", "id", b.ID, "name", b.Name, "storage", b.Storage, "transfer", b.Transfer)
	}
	return nil
}

func (d *Demo) addBucket(ctx context.Context) error {
	b, err := d.svc.Buckets.Create(ctx, d.cfg.BucketName, nil)
	if err != nil {
		return err
	}
	d.bucket = b
	d.log.Info(ctx, "bucket created", "id", b.ID, "name", b.Name)
	return nil
}

func (d *Demo) removeBucket(ctx context.Context) error {
	if err := d.svc.Buckets.Destroy(ctx, d.bucket.ID); err != nil {
		return err
	}
	d.log.Info(ctx, "bucket removed", "id", d.bucket.ID)
	return nil
}

func (d *Demo) uploadFile(ctx context.Context) error {
	f, err := d.svc.Upload.Upload(ctx, d.cfg.UploadBucketID, d.cfg.UploadFile)
	if err != nil {
		return err
	}
	d.uploaded = f
	return nil
}

// summarize fetches the final key and bucket listings concurrently.
func (d *Demo) summarize(ctx context.Context) error {
	var keys, buckets int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ks, err := d.svc.Keys.List(gctx)
		if err != nil {
			return err
		}
		keys = len(ks)
		return nil
	})
	g.Go(func() error {
		bs, err := d.svc.Buckets.List(gctx)
		if err != nil && !errors.Is(err, client.ErrEmptyResult) {
			return err
		}
		buckets = len(bs)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	d.log.Info(ctx, "workflow finished", "keys", keys, "buckets", buckets, "uploaded", d.uploaded.ID)
	return nil
}
