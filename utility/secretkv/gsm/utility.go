package gsm

import (
	"context"
	"errors"
	"strconv"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"

	"github.com/dapur-gratis/resep-api/utility/secretkv"
)

var _ secretkv.Provider = &gsmSecretProvider{}

type gsmSecretProvider struct {
	client    *secretmanager.Client
	projectID string
}

func New(ctx context.Context, projectID string) (*gsmSecretProvider, error) {
	client, err := secretmanager.NewRESTClient(ctx)
	if err != nil {
		return nil, err
	}
	return &gsmSecretProvider{
		client:    client,
		projectID: projectID,
	}, nil
}

func (g *gsmSecretProvider) Get(ctx context.Context, key string, version int) (secretkv.Payload, error) {
	versionText := "latest"
	if version > 0 {
		versionText = strconv.Itoa(version)
	}

	sec, err := g.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: "projects/" + g.projectID + "/secrets/" + key + "/versions/" + versionText,
	})
	if err != nil {
		return secretkv.Payload{}, err
	}

	key, parsedVersion, err := getKeyAndVersion(sec.Name)
	if err != nil {
		return secretkv.Payload{}, err
	}

	return secretkv.Payload{
		Key:     key,
		Version: parsedVersion,
		Payload: sec.GetPayload().GetData(),
	}, nil
}

func (g *gsmSecretProvider) List(ctx context.Context, key string) ([]secretkv.Payload, error) {
	iter := g.client.ListSecretVersions(ctx, &secretmanagerpb.ListSecretVersionsRequest{
		Parent: "projects/" + g.projectID + "/secrets/" + key,
	})

	var versions []secretkv.Payload
	for {
		data, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return versions, err
		}

		if data.State != secretmanagerpb.SecretVersion_ENABLED {
			continue
		}

		name, version, err := getKeyAndVersion(data.Name)
		if err != nil {
			log.Warn().Msgf("Skipping unparseable secret version '%v': %v", data.Name, err)
			continue
		}

		payload, err := g.Get(ctx, name, version)
		if err != nil {
			log.Warn().Msgf("Failed to fetch secret '%v' version %v: %v", name, version, err)
			continue
		}
		payload.CreatedAt = data.CreateTime.AsTime()

		versions = append(versions, payload)
	}

	return versions, nil
}

func getKeyAndVersion(fullName string) (string, int, error) {
	token := strings.Split(fullName, "/")
	if len(token) < 3 {
		return "", 0, errors.New("cannot parse secret name")
	}
	version, err := strconv.Atoi(token[len(token)-1])
	if err != nil {
		return "", 0, err
	}
	return token[len(token)-3], version, nil
}
