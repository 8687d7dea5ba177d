package fetch

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/qtinst/qtinst/internal/models"
)

// FetchPublishedHash retrieves the sha256 sidecar published next to an
// archive (<url>.sha256) and returns the expected digest. The sidecar must be
// of the exact shape "<64 lowercase hex chars><space>...".
func (c *Client) FetchPublishedHash(ctx context.Context, url string) ([sha256.Size]byte, error) {
	var digest [sha256.Size]byte

	body, err := c.FetchText(ctx, url+".sha256")
	if err != nil {
		return digest, err
	}

	if len(body) < hex.EncodedLen(sha256.Size)+1 || body[hex.EncodedLen(sha256.Size)] != ' ' {
		return digest, &models.QtError{
			Type:    models.ErrMalformedHash,
			Subject: url + ".sha256",
			Err:     fmt.Errorf("sidecar is not of the form \"<64 hex chars> <name>\""),
		}
	}
	if _, err := hex.Decode(digest[:], []byte(body[:hex.EncodedLen(sha256.Size)])); err != nil {
		return digest, &models.QtError{
			Type:    models.ErrMalformedHash,
			Subject: url + ".sha256",
			Err:     fmt.Errorf("sidecar digest is not valid hex: %w", err),
		}
	}
	return digest, nil
}

// FetchVerified streams the resource body through a running sha256 into w and
// compares the computed digest against expected once the full body has been
// written. On mismatch it fails with HashMismatch; bytes already written to w
// stay there, so the caller must discard the sink.
func (c *Client) FetchVerified(ctx context.Context, url string, expected [sha256.Size]byte, w io.Writer) error {
	resp, err := c.get(ctx, url, false)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(w, h), resp.Body); err != nil {
		return fmt.Errorf("downloading %s: %w", url, err)
	}

	if got := h.Sum(nil); !bytes.Equal(got, expected[:]) {
		return &models.QtError{
			Type:    models.ErrHashMismatch,
			Subject: url,
			Err: fmt.Errorf("downloaded %s, published sidecar says %s",
				hex.EncodeToString(got), hex.EncodeToString(expected[:])),
		}
	}
	return nil
}
