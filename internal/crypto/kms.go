package crypto

import (
	"context"
	"encoding/base64"
	"errors"

	gcpkms "cloud.google.com/go/kms/apiv1"
	"cloud.google.com/go/kms/apiv1/kmspb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/goalaura-backend/internal/errs"
)

// ErrInvalidToken is returned by Open when the token was not produced by
// Seal for the same subject.
var ErrInvalidToken = errors.New("invalid token")

type keyManagementClient interface {
	Encrypt(ctx context.Context, req *kmspb.EncryptRequest, opts ...gax.CallOption) (*kmspb.EncryptResponse, error)
	Decrypt(ctx context.Context, req *kmspb.DecryptRequest, opts ...gax.CallOption) (*kmspb.DecryptResponse, error)
}

type kms struct {
	client  keyManagementClient
	keyName string
}

func NewKMS(client *gcpkms.KeyManagementClient, keyName string) *kms {
	return &kms{client: client, keyName: keyName}
}

// Seal encrypts plaintext with the configured key, binding it to subject as
// additional authenticated data. The result is URL-safe base64.
func (k *kms) Seal(ctx context.Context, subject, plaintext string) (string, error) {
	resp, err := k.client.Encrypt(ctx, &kmspb.EncryptRequest{
		Name:                        k.keyName,
		Plaintext:                   []byte(plaintext),
		AdditionalAuthenticatedData: []byte(subject),
	})
	if err != nil {
		return "", errs.NewEncryptionError("kms encrypt", err)
	}
	return base64.RawURLEncoding.EncodeToString(resp.Ciphertext), nil
}

// Open reverses Seal. A malformed token or one sealed for another subject
// yields ErrInvalidToken.
func (k *kms) Open(ctx context.Context, subject, token string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil || len(raw) == 0 {
		return "", ErrInvalidToken
	}
	resp, err := k.client.Decrypt(ctx, &kmspb.DecryptRequest{
		Name:                        k.keyName,
		Ciphertext:                  raw,
		AdditionalAuthenticatedData: []byte(subject),
	})
	if status.Code(err) == codes.InvalidArgument {
		return "", ErrInvalidToken
	}
	if err != nil {
		return "", errs.NewEncryptionError("kms decrypt", err)
	}
	return string(resp.Plaintext), nil
}
