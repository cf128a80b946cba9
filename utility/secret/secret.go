package secret

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/hcl/v2/hclsimple"

	"github.com/dapur-gratis/resep-api/utility/secretkv"
)

const maximumSecretLength = 10 << 20

// Secret is the decoded content of the boot secret document.
// HMAC maps JWT key identifier to signing secret.
type Secret struct {
	KV   map[string]string `hcl:"kv"`
	HMAC map[string]string `hcl:"hmac"`
}

type Strategy string

const (
	STRATEGY_HCL_FILE  Strategy = "hcl-file"
	STRATEGY_HCL_STDIN Strategy = "hcl-stdin"
	STRATEGY_GSM       Strategy = "gsm"
)

// Load reads the secret document according to the strategy. For
// STRATEGY_GSM, path is the secret name inside the configured Google
// Secret Manager project.
func Load(ctx context.Context, strategy Strategy, path string) (*Secret, error) {
	switch strategy {
	case STRATEGY_HCL_FILE:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open secret file: %w", err)
		}
		defer f.Close()
		return Decode(f)
	case STRATEGY_HCL_STDIN:
		return Decode(os.Stdin)
	case STRATEGY_GSM:
		payload, err := secretkv.Get(ctx, path, 0)
		if err != nil {
			return nil, fmt.Errorf("fetch secret from secret manager: %w", err)
		}
		var cfg Secret
		if err := hclsimple.Decode("secret.hcl", payload.Payload, nil, &cfg); err != nil {
			return nil, fmt.Errorf("decode secret: %w", err)
		}
		return &cfg, nil
	}
	return nil, fmt.Errorf("unknown secret strategy '%v'", strategy)
}

func Decode(in io.Reader) (*Secret, error) {
	payload, err := io.ReadAll(io.LimitReader(in, maximumSecretLength))
	if err != nil {
		return nil, fmt.Errorf("read secret: %w", err)
	}

	var cfg Secret
	if err := hclsimple.Decode("secret.hcl", payload, nil, &cfg); err != nil {
		return nil, fmt.Errorf("decode secret: %w", err)
	}
	return &cfg, nil
}
