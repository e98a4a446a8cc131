/*
Copyright 2022 The FuzzCloud Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cloud

import (
	"crypto/rsa"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/pkg/errors"

	"github.com/fuzzcloud/pool-manager/pkg/tool/httpclient"
)

const tokenTTL = time.Hour

// renew slightly before the hard expiry so in-flight requests never race
// the deadline
const tokenRenewMargin = 5 * time.Minute

// TokenProvider exchanges a signed service account JWT for a short lived
// API token and caches it until renewal is due.
type TokenProvider struct {
	accountID string
	keyID     string
	key       *rsa.PrivateKey
	client    *httpclient.Client
	authURL   string

	mu        sync.Mutex
	token     string
	expiresAt time.Time

	now func() time.Time
}

func NewTokenProvider(authURL, accountID, keyID, privateKeyFile string) (*TokenProvider, error) {
	pem, err := os.ReadFile(privateKeyFile)
	if err != nil {
		return nil, errors.Wrap(err, "read private key")
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM(pem)
	if err != nil {
		return nil, errors.Wrap(err, "parse private key")
	}

	return &TokenProvider{
		accountID: accountID,
		keyID:     keyID,
		key:       key,
		authURL:   authURL,
		client:    httpclient.New(),
		now:       time.Now,
	}, nil
}

type tokenResponse struct {
	Token     string `json:"iamToken"`
	ExpiresAt string `json:"expiresAt"`
}

// Token returns a valid API token, renewing it when the cached one is
// about to expire. Safe for concurrent use.
func (p *TokenProvider) Token() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && p.now().Before(p.expiresAt.Add(-tokenRenewMargin)) {
		return p.token, nil
	}

	signed, err := p.signedJWT()
	if err != nil {
		return "", errors.Wrap(err, "sign jwt")
	}

	res := new(tokenResponse)
	_, err = p.client.Post(p.authURL,
		httpclient.SetBody(map[string]string{"jwt": signed}),
		httpclient.SetResult(res),
	)
	if err != nil {
		return "", errors.Wrap(err, "exchange jwt")
	}

	p.token = res.Token
	p.expiresAt = p.now().Add(tokenTTL)
	if t, err := time.Parse(time.RFC3339, res.ExpiresAt); err == nil {
		p.expiresAt = t
	}

	return p.token, nil
}

func (p *TokenProvider) signedJWT() (string, error) {
	now := p.now()
	token := jwt.NewWithClaims(jwt.SigningMethodPS256, jwt.MapClaims{
		"iss": p.accountID,
		"aud": p.authURL,
		"iat": now.Unix(),
		"exp": now.Add(tokenTTL).Unix(),
	})
	token.Header["kid"] = p.keyID

	return token.SignedString(p.key)
}
