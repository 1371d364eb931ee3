package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/GregMSThompson/goalaura-backend/infra/cloudrun"
	"github.com/GregMSThompson/goalaura-backend/infra/docker"
	"github.com/GregMSThompson/goalaura-backend/infra/firestore"
	"github.com/GregMSThompson/goalaura-backend/infra/identity"
	"github.com/GregMSThompson/goalaura-backend/infra/kms"
	"github.com/GregMSThompson/goalaura-backend/infra/provider"
	"github.com/GregMSThompson/goalaura-backend/infra/secret"
	"github.com/GregMSThompson/goalaura-backend/infra/vertex"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		// set default provider with the correct project
		prov, err := provider.SetupDefaultProvider(ctx)
		if err != nil {
			return err
		}

		// enable identity service to allow using firebase
		ident, err := identity.SetupIdentity(ctx, prov)
		if err != nil {
			return err
		}

		// enable firestore, create the database and the ledger indexes
		db, err := firestore.SetupFirestore(ctx, prov)
		if err != nil {
			return err
		}

		// runtime identity shared by every grant below
		apiSA, err := cloudrun.CreateServiceAccount(ctx, prov)
		if err != nil {
			return err
		}

		// plaid credentials and per-item access tokens
		sm, err := secret.SetupSecretManager(ctx, prov, apiSA)
		if err != nil {
			return err
		}

		// peer token key
		_, err = kms.SetupKMS(ctx, prov)
		if err != nil {
			return err
		}
		peerKey, err := kms.CreateKey(ctx, prov, "goalaura", "peer-tokens", apiSA)
		if err != nil {
			return err
		}

		// gemini access for comparisons and roadmaps
		ai, err := vertex.SetupVertex(ctx, prov, apiSA)
		if err != nil {
			return err
		}

		// create docker repo
		repo, err := docker.CreateCloudrunRepo(ctx, prov)
		if err != nil {
			return err
		}

		url, err := cloudrun.SetupCloudRun(ctx, prov, apiSA, peerKey, ident, db, sm, ai, repo)
		if err != nil {
			return err
		}

		ctx.Export("url", url)
		ctx.Export("peerTokenKey", peerKey)
		return nil
	})
}
