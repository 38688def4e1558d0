// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package etherscan submits contract sources to an etherscan style
// explorer for verification.
package etherscan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/gjson"

	"github.com/rari-yearn/stratctl/pkg/artifacts"
	"github.com/rari-yearn/stratctl/pkg/constants"
)

var (
	ErrMissingAPIKey      = errors.New("no explorer API key configured")
	ErrVerificationFailed = errors.New("source verification failed")
	ErrMissingSource      = errors.New("source file content is missing")

	json = jsoniter.ConfigCompatibleWithStandardLibrary
)

const (
	statusPending         = "Pending in queue"
	statusAlreadyVerified = "Already Verified"
	statusPassPrefix      = "Pass"
	statusFailPrefix      = "Fail"

	formatSingleFile   = "solidity-single-file"
	formatStandardJSON = "solidity-standard-json-input"
)

type Client struct {
	endpoint     string
	apiKey       string
	chainID      *big.Int
	httpClient   *http.Client
	pollInterval time.Duration
}

type Option func(*Client)

// WithChainID adds the chainid parameter multichain endpoints require
func WithChainID(id *big.Int) Option {
	return func(c *Client) { c.chainID = id }
}

func WithPollInterval(d time.Duration) Option {
	return func(c *Client) { c.pollInterval = d }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(endpoint, apiKey string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: constants.RequestTimeout,
		},
		pollInterval: constants.VerifyPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// VerifyRequest is one contract to verify. With more than one entry in
// Sources it is submitted as standard json input.
type VerifyRequest struct {
	Address          common.Address
	ContractName     string
	Source           string
	SourcePath       string
	Sources          map[string]string
	Language         string
	CompilerVersion  string
	OptimizerEnabled bool
	OptimizerRuns    int64
	ConstructorArgs  []byte
}

// RequestFromArtifact fills a request from a build artifact
func RequestFromArtifact(art *artifacts.Artifact, address common.Address, constructorArgs []byte) VerifyRequest {
	return VerifyRequest{
		Address:          address,
		ContractName:     art.ContractName,
		Source:           art.Source,
		SourcePath:       art.SourcePath,
		Sources:          art.Sources,
		Language:         art.Language,
		CompilerVersion:  art.CompilerVersion,
		OptimizerEnabled: art.OptimizerEnabled,
		OptimizerRuns:    art.OptimizerRuns,
		ConstructorArgs:  constructorArgs,
	}
}

func (c *Client) params(module, action string) url.Values {
	v := url.Values{}
	v.Set("apikey", c.apiKey)
	v.Set("module", module)
	v.Set("action", action)
	if c.chainID != nil {
		v.Set("chainid", c.chainID.String())
	}
	return v
}

// do sends a request and returns the "result" of a status "1" response.
// Other responses come back as an error carrying the result text.
func (c *Client) do(req *http.Request) (string, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read explorer response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("explorer returned status %d: %s", resp.StatusCode, string(body))
	}
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("explorer returned invalid json: %s", string(body))
	}
	doc := gjson.ParseBytes(body)
	result := doc.Get("result").String()
	if doc.Get("status").String() != "1" {
		return result, &APIError{Message: doc.Get("message").String(), Result: result}
	}
	return result, nil
}

// APIError is a status "0" explorer response
type APIError struct {
	Message string
	Result  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("explorer error: %s: %s", e.Message, e.Result)
}

// VerifySource submits the source and returns the explorer's GUID
func (c *Client) VerifySource(ctx context.Context, vr VerifyRequest) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}
	format, source, name := formatSingleFile, vr.Source, vr.ContractName
	if len(vr.Sources) > 1 && !strings.EqualFold(vr.Language, "vyper") {
		input, err := standardJSONInput(vr)
		if err != nil {
			return "", err
		}
		format, source = formatStandardJSON, input
		if vr.SourcePath != "" {
			name = vr.SourcePath + ":" + vr.ContractName
		}
	}
	form := c.params("contract", "verifysourcecode")
	form.Set("contractaddress", vr.Address.Hex())
	form.Set("sourceCode", source)
	form.Set("codeformat", format)
	form.Set("contractname", name)
	form.Set("compilerversion", compilerVersion(vr.CompilerVersion))
	form.Set("optimizationUsed", boolFlag(vr.OptimizerEnabled))
	form.Set("runs", strconv.FormatInt(vr.OptimizerRuns, 10))
	// the misspelling is the API's
	form.Set("constructorArguements", strings.TrimPrefix(hexutil.Encode(vr.ConstructorArgs), "0x"))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	guid, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("failed to submit %s for verification: %w", vr.ContractName, err)
	}
	return guid, nil
}

type sourceFile struct {
	Content string `json:"content"`
}

type optimizer struct {
	Enabled bool  `json:"enabled"`
	Runs    int64 `json:"runs"`
}

type standardInput struct {
	Language string                `json:"language"`
	Sources  map[string]sourceFile `json:"sources"`
	Settings struct {
		Optimizer optimizer `json:"optimizer"`
	} `json:"settings"`
}

func standardJSONInput(vr VerifyRequest) (string, error) {
	in := standardInput{Language: "Solidity", Sources: make(map[string]sourceFile, len(vr.Sources))}
	for path, content := range vr.Sources {
		if content == "" {
			return "", fmt.Errorf("%w: %s", ErrMissingSource, path)
		}
		in.Sources[path] = sourceFile{Content: content}
	}
	in.Settings.Optimizer = optimizer{Enabled: vr.OptimizerEnabled, Runs: vr.OptimizerRuns}
	out, err := json.Marshal(in)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// CheckStatus polls the verification of guid until it passes, fails or
// ctx is done. A verdict it does not recognise counts as a failure.
func (c *Client) CheckStatus(ctx context.Context, guid string) error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		q := c.params("contract", "checkverifystatus")
		q.Set("guid", guid)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
		if err != nil {
			return err
		}
		result, err := c.do(req)
		switch {
		case err == nil && strings.HasPrefix(result, statusPassPrefix):
			return nil
		case strings.Contains(result, statusAlreadyVerified):
			return nil
		case strings.HasPrefix(result, statusFailPrefix):
			return fmt.Errorf("%w: %s", ErrVerificationFailed, result)
		case result == statusPending:
		case err != nil:
			return err
		default:
			return fmt.Errorf("%w: unexpected status %q", ErrVerificationFailed, result)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Verify submits and waits for the verdict
func (c *Client) Verify(ctx context.Context, vr VerifyRequest) error {
	guid, err := c.VerifySource(ctx, vr)
	if err != nil {
		return err
	}
	return c.CheckStatus(ctx, guid)
}

func compilerVersion(v string) string {
	if v == "" || strings.HasPrefix(v, "v") || strings.HasPrefix(v, "vyper") {
		return v
	}
	return "v" + v
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
