package midtrans

import (
	"crypto/sha512"
	"encoding/hex"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// NewSnapClient builds a snap client from the configured server key.
// Anything but environment="production" targets the sandbox.
func NewSnapClient(serverKey, environment string) *snap.Client {
	var client snap.Client

	env := midtrans.Sandbox
	if environment == "production" {
		env = midtrans.Production
	}
	client.New(serverKey, env)

	return &client
}

// VerifySignature checks the SHA-512 signature on a midtrans webhook.
func VerifySignature(
	orderID string,
	statusCode string,
	grossAmount string,
	signature string,
	serverKey string,
) bool {

	raw := orderID + statusCode + grossAmount + serverKey
	hash := sha512.Sum512([]byte(raw))
	expected := hex.EncodeToString(hash[:])

	return expected == signature
}
