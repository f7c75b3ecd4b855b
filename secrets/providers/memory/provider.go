// Package memory provides an in-memory secret provider for tests and local dry runs.
// Secrets keep their insertion order, which is also the listing order.
package memory

import (
	"context"
	"fmt"
	"io"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/useparagon/aws-secretsmanager-get-secrets/secrets"
)

// arnPrefix is used to synthesize ARNs for secrets stored without one.
const arnPrefix = "arn:aws:secretsmanager:us-east-1:000000000000:secret:"

type entry struct {
	arn   string
	value []byte
}

// Provider is a thread-safe in-memory secrets.Provider.
type Provider struct {
	mu        sync.RWMutex
	order     []string
	store     map[string]*entry
	byARN     map[string]string
	listErr   error
	getErrs   map[string]error
	listCalls int
	getCalls  int
}

var _ secrets.Provider = (*Provider)(nil)

// New creates an empty provider.
func New() *Provider {
	return &Provider{
		store:   make(map[string]*entry),
		byARN:   make(map[string]string),
		getErrs: make(map[string]error),
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "memory"
}

// Set stores value under name with a synthesized ARN.
func (p *Provider) Set(name, value string) {
	p.SetWithARN(name, arnPrefix+name, value)
}

// SetWithARN stores value under name with the given ARN. Replacing an existing
// name keeps its listing position.
func (p *Provider) SetWithARN(name, arn, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if old, ok := p.store[name]; ok {
		delete(p.byARN, old.arn)
	} else {
		p.order = append(p.order, name)
	}
	p.store[name] = &entry{arn: arn, value: []byte(value)}
	if arn != "" {
		p.byARN[arn] = name
	}
}

// FailList makes every ListSecrets call return err. A nil err clears it.
func (p *Provider) FailList(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listErr = err
}

// FailGet makes GetSecret for id return err. A nil err clears it.
func (p *Provider) FailGet(id string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err == nil {
		delete(p.getErrs, id)
		return
	}
	p.getErrs[id] = err
}

// ListCalls returns how many times ListSecrets was called.
func (p *Provider) ListCalls() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.listCalls
}

// GetCalls returns how many times GetSecret was called.
func (p *Provider) GetCalls() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.getCalls
}

// ListSecrets returns every name in insertion order.
func (p *Provider) ListSecrets(ctx context.Context) ([]string, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("list operation cancelled: %w", ctx.Err())
	default:
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.listCalls++
	if p.listErr != nil {
		return nil, p.listErr
	}
	return append([]string(nil), p.order...), nil
}

// GetSecret returns a copy of the secret stored under a name or ARN.
func (p *Provider) GetSecret(ctx context.Context, id string) (*secrets.Secret, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("get operation cancelled: %w", ctx.Err())
	default:
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.getCalls++
	if err, ok := p.getErrs[id]; ok {
		return nil, err
	}

	name := id
	if n, ok := p.byARN[id]; ok {
		name = n
	}
	e, ok := p.store[name]
	if !ok {
		return nil, secrets.ErrSecretNotFound
	}

	return &secrets.Secret{
		Name:  name,
		ARN:   e.arn,
		Value: append([]byte(nil), e.value...),
	}, nil
}

// Close clears every stored value.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for name, e := range p.store {
		for i := range e.value {
			e.value[i] = 0
		}
		delete(p.store, name)
	}
	p.order = nil
	p.byARN = make(map[string]string)
	return nil
}

// seedEntry is the long form of a seed file value.
type seedEntry struct {
	Value string `yaml:"value"`
	ARN   string `yaml:"arn"`
}

// Load reads a YAML mapping of secret name to value and stores each entry in
// document order. A value is either a string or a mapping with value and arn keys:
//
//	test/one: '{"user":"admin","password":"adminpw"}'
//	prod/db:
//	  value: pw
//	  arn: arn:aws:secretsmanager:us-east-1:123456789012:secret:prod/db-AbCdEf
func (p *Provider) Load(r io.Reader) error {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("failed to decode seed file: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("seed file must be a mapping of secret name to value (line %d)", root.Line)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		switch val.Kind {
		case yaml.ScalarNode:
			p.Set(key.Value, val.Value)
		case yaml.MappingNode:
			var se seedEntry
			if err := val.Decode(&se); err != nil {
				return fmt.Errorf("invalid entry %q (line %d): %w", key.Value, key.Line, err)
			}
			if se.ARN == "" {
				se.ARN = arnPrefix + key.Value
			}
			p.SetWithARN(key.Value, se.ARN, se.Value)
		default:
			return fmt.Errorf("invalid entry %q (line %d): expected string or mapping", key.Value, key.Line)
		}
	}
	return nil
}

// NewFromYAML returns a provider seeded from a YAML document (see Load).
func NewFromYAML(r io.Reader) (*Provider, error) {
	p := New()
	if err := p.Load(r); err != nil {
		return nil, err
	}
	return p, nil
}
