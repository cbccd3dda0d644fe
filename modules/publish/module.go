// Package publish uploads the catalog template and every compiled catalog to
// an S3-compatible bucket. It is not part of the default task; reference it
// from a configured task such as `task "release" { steps = ["i18n", "publish"] }`.
package publish

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/specialistvlad/i18nrun/internal/config"
	"github.com/specialistvlad/i18nrun/internal/ctxlog"
	"github.com/specialistvlad/i18nrun/internal/fanout"
	"github.com/specialistvlad/i18nrun/internal/fsutil"
	"github.com/specialistvlad/i18nrun/internal/registry"
	"github.com/specialistvlad/i18nrun/internal/step"
	"github.com/zclconf/go-cty/cty"
)

// Name is the registered step name.
const Name = "publish"

// Uploader is the subset of the S3 client the step needs.
type Uploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Module implements the registry.Module interface for this package.
type Module struct {
	// Client replaces the SDK client built from the publish block.
	Client Uploader
}

// Register registers the step.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterStep(Name, m.New)
}

// Step uploads build artifacts.
type Step struct {
	env *registry.Env
	cfg config.Publish

	once    sync.Once
	client  Uploader
	initErr error
}

// New builds the step. A missing publish block is a configuration error.
func (m *Module) New(env *registry.Env) (step.Step, error) {
	if env.Config.Publish == nil || env.Config.Publish.Bucket == "" {
		return nil, fmt.Errorf("%w: the publish step requires a publish block with a bucket", step.ErrConfiguration)
	}
	s := &Step{env: env, cfg: *env.Config.Publish}
	if m.Client != nil {
		s.once.Do(func() { s.client = m.Client })
	}
	return s, nil
}

func (s *Step) Name() string { return Name }

func (s *Step) uploader(ctx context.Context) (Uploader, error) {
	s.once.Do(func() {
		var opts []func(*awsconfig.LoadOptions) error
		if s.cfg.Region != "" {
			opts = append(opts, awsconfig.WithRegion(s.cfg.Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			s.initErr = fmt.Errorf("failed to load AWS config: %w", err)
			return
		}
		s.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if s.cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(s.cfg.Endpoint)
				o.UsePathStyle = true
			}
		})
	})
	return s.client, s.initErr
}

// Artifacts returns the template followed by every compiled catalog.
func (s *Step) Artifacts() ([]string, error) {
	p := s.env.Profile
	if _, err := os.Stat(filepath.Join(s.env.Root, filepath.FromSlash(p.TemplatePath))); err != nil {
		return nil, step.Missing(Name, p.TemplatePath)
	}
	compiledPattern := strings.TrimSuffix(p.CatalogFilePattern, ".po") + ".mo"
	compiled, err := fsutil.Expand(s.env.Root, []string{compiledPattern}, nil)
	if err != nil {
		return nil, step.Wrap(step.ErrConfiguration, Name, err)
	}
	if len(compiled) == 0 {
		return nil, step.Fail(step.ErrNoWork, Name, "no compiled catalogs")
	}
	return append([]string{p.TemplatePath}, compiled...), nil
}

// Key returns the object key for an artifact path.
func (s *Step) Key(rel string) string {
	return path.Join(s.cfg.Prefix, rel)
}

// Run uploads every artifact concurrently.
func (s *Step) Run(ctx context.Context) (step.Result, error) {
	logger := ctxlog.FromContext(ctx).With("bucket", s.cfg.Bucket)

	items, err := s.Artifacts()
	if err != nil {
		return step.Result{}, err
	}
	client, err := s.uploader(ctx)
	if err != nil {
		return step.Result{}, step.Wrap(step.ErrConfiguration, Name, err)
	}

	err = fanout.RunAll(ctx, items, func(ctx context.Context, rel string) error {
		return s.upload(ctx, client, rel)
	}, fanout.WithLimit(s.env.Workers))
	if err != nil {
		return step.Result{}, step.Wrap(step.ErrExternalTool, Name, err)
	}

	logger.Info("Published artifacts.", "objects", len(items), "prefix", s.cfg.Prefix)
	return step.Result{
		Output: cty.ObjectVal(map[string]cty.Value{
			"bucket":  cty.StringVal(s.cfg.Bucket),
			"objects": cty.NumberIntVal(int64(len(items))),
		}),
	}, nil
}

func (s *Step) upload(ctx context.Context, client Uploader, rel string) error {
	logger := ctxlog.FromContext(ctx)

	file, err := os.Open(filepath.Join(s.env.Root, filepath.FromSlash(rel)))
	if err != nil {
		return fmt.Errorf("failed to open source file '%s': %w", rel, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to get file stats for '%s': %w", rel, err)
	}

	key := s.Key(rel)
	logger.Debug("Uploading file to S3", "source", rel, "key", key, "size", stat.Size())

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          file,
		ContentType:   aws.String(contentType(rel)),
		ContentLength: aws.Int64(stat.Size()),
	})
	if err != nil {
		return fmt.Errorf("S3 upload of '%s' failed: %w", key, err)
	}
	return nil
}

func contentType(name string) string {
	switch path.Ext(name) {
	case ".pot", ".po":
		return "text/x-gettext-translation"
	case ".mo":
		return "application/x-gettext-translation"
	}
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
