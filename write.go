package hwid

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/darkit/hwid/internal/logging"
)

// NewMachineGUID returns a random UUIDv4 in canonical lowercase form.
func NewMachineGUID() string {
	return uuid.NewString()
}

// NewProductID returns a random xxxxx-xxxxx-xxxxx-xxxxx lowercase hex id.
func NewProductID() string {
	groups := make([]string, 4)
	for i := range groups {
		groups[i] = strings.ReplaceAll(uuid.NewString(), "-", "")[:5]
	}
	return strings.Join(groups, "-")
}

// WriteMachineGuid overwrites the machine GUID. An empty value writes a new
// random GUID; an explicit value must parse as a UUID. Returns the value written.
func (g *Gateway) WriteMachineGuid(ctx context.Context, value string) (string, error) {
	const op = "WriteMachineGuid"
	value = strings.TrimSpace(value)
	if value == "" {
		value = NewMachineGUID()
	} else {
		id, err := uuid.Parse(value)
		if err != nil {
			return "", newError(KindInvalidFormat, op, fmt.Sprintf("%q is not a GUID", value), err)
		}
		value = id.String()
	}
	if err := g.requireElevation(op); err != nil {
		return "", err
	}
	if err := g.writeRegistryValue(ctx, op, CryptographyKey, MachineGuidValue, value); err != nil {
		return "", err
	}
	return value, nil
}

// WriteProductID overwrites the Windows ProductId. An empty value writes a
// randomly generated id. Returns the value written.
func (g *Gateway) WriteProductID(ctx context.Context, value string) (string, error) {
	const op = "WriteProductID"
	value = strings.TrimSpace(value)
	if value == "" {
		value = NewProductID()
	}
	if err := g.requireElevation(op); err != nil {
		return "", err
	}
	if err := g.writeRegistryValue(ctx, op, CurrentVersionKey, ProductIDValue, value); err != nil {
		return "", err
	}
	return value, nil
}

func (g *Gateway) writeRegistryValue(ctx context.Context, op, path, name, value string) error {
	log := logging.WithOp(g.log, op)
	if err := g.registry.WriteString(path, name, value); err != nil {
		log.ErrorContext(ctx, "registry write failed", "path", path, "value", name, logging.KeyError, err)
		return newError(KindRegistryWrite, op, "cannot write "+name, err)
	}
	log.InfoContext(ctx, "registry value written", "path", path, "value", name)
	return nil
}
