package bootstrap

import (
	"context"

	"cloud.google.com/go/firestore"
	gcpkms "cloud.google.com/go/kms/apiv1"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
)

// InitFirestore honors FIRESTORE_EMULATOR_HOST, which the seeder and the
// store tests rely on.
func InitFirestore(ctx context.Context, projectID string) (*firestore.Client, error) {
	return firestore.NewClient(ctx, projectID)
}

func InitKMS(ctx context.Context) (*gcpkms.KeyManagementClient, error) {
	return gcpkms.NewKeyManagementClient(ctx)
}

func InitSecretManager(ctx context.Context) (*secretmanager.Client, error) {
	return secretmanager.NewClient(ctx)
}
