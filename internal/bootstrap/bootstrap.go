package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"cloud.google.com/go/firestore"
	gcpkms "cloud.google.com/go/kms/apiv1"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/goalaura-backend/internal/client/plaid"
	"github.com/GregMSThompson/goalaura-backend/internal/client/vertex"
	"github.com/GregMSThompson/goalaura-backend/internal/config"
	"github.com/GregMSThompson/goalaura-backend/pkg/logger"
)

type Bootstrap struct {
	Log           *slog.Logger
	Firestore     *firestore.Client
	Firebase      *auth.Client
	KMS           *gcpkms.KeyManagementClient
	SecretManager *secretmanager.Client
	VertexAdapter *vertex.Adapter
	PlaidAdapter  *plaid.Adapter
}

// Run builds every external client. On error the partially built Bootstrap
// is returned so the caller can log and Close it.
func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewCloudRunHandler)
	if err = cfg.Validate(); err != nil {
		return bs, err
	}
	bs.Firestore, err = InitFirestore(applicationCtx, cfg.ProjectID)
	if err != nil {
		return bs, err
	}
	bs.Firebase, err = InitFirebase(applicationCtx, cfg.ProjectID)
	if err != nil {
		return bs, err
	}
	bs.KMS, err = InitKMS(applicationCtx)
	if err != nil {
		return bs, err
	}
	bs.SecretManager, err = InitSecretManager(applicationCtx)
	if err != nil {
		return bs, err
	}
	bs.VertexAdapter, err = vertex.NewAdapter(applicationCtx, bs.Log, cfg.ProjectID, cfg.Region, cfg.VertexModel)
	if err != nil {
		return bs, err
	}
	bs.PlaidAdapter = plaid.NewAdapter(cfg.PlaidClientID, cfg.PlaidSecret, cfg.PlaidEnvironment, cfg.PlaidCountryCodes)

	return bs, nil
}

// Close releases every client that was opened.
func (bs *Bootstrap) Close() error {
	var errList []error
	if bs.VertexAdapter != nil {
		errList = append(errList, bs.VertexAdapter.Close())
	}
	if bs.SecretManager != nil {
		errList = append(errList, bs.SecretManager.Close())
	}
	if bs.KMS != nil {
		errList = append(errList, bs.KMS.Close())
	}
	if bs.Firestore != nil {
		errList = append(errList, bs.Firestore.Close())
	}
	return errors.Join(errList...)
}
