package utils

import (
	"crypto/rand"
	"net/url"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Friendly info pages the handlers redirect to.
const (
	ClientInfoPath = "/client-info"
	AdminInfoPath  = "/admin-info"
	ErrorInfoPath  = "/error-info"
)

// InfoTTL bounds how long an info link keeps showing its message.
const InfoTTL = 15 * time.Minute

var (
	infoMu  sync.RWMutex
	infoKey = randomInfoKey()
)

func randomInfoKey() []byte {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic(err)
	}
	return key
}

// SetInfoSecret sets the key info links are signed with. Instances sharing
// the secret accept each other's links.
func SetInfoSecret(secret string) {
	if secret == "" {
		return
	}
	infoMu.Lock()
	infoKey = []byte("info:" + secret)
	infoMu.Unlock()
}

func currentInfoKey() []byte {
	infoMu.RLock()
	defer infoMu.RUnlock()
	return infoKey
}

type infoClaims struct {
	Info string `json:"info"`
	jwt.RegisteredClaims
}

// ClientInfoURL points to the public info page showing message.
func ClientInfoURL(message string) string {
	return infoURL(ClientInfoPath, message)
}

// AdminInfoURL points to the administration info page showing message.
func AdminInfoURL(message string) string {
	return infoURL(AdminInfoPath, message)
}

// ErrorInfoURL points to the error page showing message.
func ErrorInfoURL(message string) string {
	return infoURL(ErrorInfoPath, message)
}

func infoURL(path, message string) string {
	if message == "" {
		return path
	}
	claims := infoClaims{
		Info: message,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(InfoTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(currentInfoKey())
	if err != nil {
		return path
	}
	return path + "?" + url.Values{"info": {token}}.Encode()
}

// InfoMessage returns the message carried by an info parameter. Values that
// were not signed here, or have expired, yield "".
func InfoMessage(param string) string {
	if param == "" {
		return ""
	}
	var claims infoClaims
	token, err := jwt.ParseWithClaims(param, &claims, func(*jwt.Token) (interface{}, error) {
		return currentInfoKey(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return ""
	}
	return claims.Info
}
