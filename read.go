package hwid

import (
	"context"
	"errors"
	"time"

	"github.com/darkit/hwid/internal/logging"
)

// ReadMachineGuid returns HKLM\SOFTWARE\Microsoft\Cryptography\MachineGuid.
func (g *Gateway) ReadMachineGuid(ctx context.Context) (string, error) {
	return g.readRegistryValue(ctx, "ReadMachineGuid", CryptographyKey, MachineGuidValue)
}

// ReadProductID returns the Windows installation ProductId.
func (g *Gateway) ReadProductID(ctx context.Context) (string, error) {
	return g.readRegistryValue(ctx, "ReadProductID", CurrentVersionKey, ProductIDValue)
}

func (g *Gateway) readRegistryValue(ctx context.Context, op, path, name string) (string, error) {
	value, err := g.registry.ReadString(path, name)
	if err != nil {
		kind := KindOf(err)
		if kind != KindKeyNotFound {
			kind = KindUnavailable
		}
		logging.WithOp(g.log, op).DebugContext(ctx, "registry read failed",
			"path", path, "value", name, logging.KeyError, err)
		return Unavailable, newError(kind, op, "cannot read "+name, err)
	}
	return value, nil
}

// ReadCPUID returns Win32_Processor.ProcessorId.
func (g *Gateway) ReadCPUID(ctx context.Context) (string, error) {
	return g.readIdentifier(ctx, "ReadCPUID", IdentifierCPU)
}

// ReadDiskSerial returns the serial number of the first physical disk.
func (g *Gateway) ReadDiskSerial(ctx context.Context) (string, error) {
	return g.readIdentifier(ctx, "ReadDiskSerial", IdentifierDisk)
}

// ReadBoardSerial returns Win32_BaseBoard.SerialNumber.
func (g *Gateway) ReadBoardSerial(ctx context.Context) (string, error) {
	return g.readIdentifier(ctx, "ReadBoardSerial", IdentifierBoard)
}

func (g *Gateway) readIdentifier(ctx context.Context, op string, id Identifier) (string, error) {
	start := time.Now()
	log := logging.WithOp(g.log, op).With(logging.KeyIdentifier, string(id))
	value, err := runProbes(logging.NewContext(ctx, log), g.probes[id], g.probeTimeout)
	if err != nil {
		log.DebugContext(ctx, "all probes failed",
			logging.KeyDurationMs, time.Since(start).Milliseconds(), logging.KeyError, err)
		return Unavailable, newError(KindUnavailable, op, "no probe returned a value", err)
	}
	log.DebugContext(ctx, "identifier read", logging.KeyDurationMs, time.Since(start).Milliseconds())
	return value, nil
}

// ReadMacAddress returns the primary interface address as six lowercase
// colon separated octets.
func (g *Gateway) ReadMacAddress(ctx context.Context) (string, error) {
	const op = "ReadMacAddress"
	ifaces, err := g.interfaces()
	if err != nil {
		return Unavailable, newError(KindUnavailable, op, "cannot list interfaces", err)
	}
	mac, err := primaryMAC(ifaces)
	if err != nil {
		logging.WithOp(g.log, op).DebugContext(ctx, "no MAC candidate", logging.KeyError, err)
		return Unavailable, newError(KindUnavailable, op, "no suitable interface", err)
	}
	return mac, nil
}

// CollectAll reads every identifier and computes the fingerprint from those
// same values. It never fails; unreadable fields hold Unavailable.
func (g *Gateway) CollectAll(ctx context.Context) *IdentifierSet {
	set := &IdentifierSet{}
	errs := g.readComponents(ctx, set)

	var err error
	if set.ProductID, err = g.ReadProductID(ctx); err != nil {
		errs = append(errs, err)
	}
	set.Fingerprint = set.composite()

	info := g.hostInfo(ctx)
	set.Platform = orUnavailable(info.Platform)
	set.Hostname = orUnavailable(info.Hostname)

	if len(errs) > 0 {
		logging.WithOp(g.log, "CollectAll").WarnContext(ctx, "some identifiers unavailable",
			"count", len(errs), logging.KeyError, errors.Join(errs...))
	}
	return set
}

// readComponents fills the five fingerprint inputs of set.
func (g *Gateway) readComponents(ctx context.Context, set *IdentifierSet) []error {
	var errs []error
	reads := []struct {
		dst  *string
		read func(context.Context) (string, error)
	}{
		{&set.MachineGUID, g.ReadMachineGuid},
		{&set.CPUID, g.ReadCPUID},
		{&set.DiskSerial, g.ReadDiskSerial},
		{&set.BoardSerial, g.ReadBoardSerial},
		{&set.MACAddress, g.ReadMacAddress},
	}
	for _, r := range reads {
		v, err := r.read(ctx)
		if err != nil {
			errs = append(errs, err)
			v = Unavailable
		}
		*r.dst = v
	}
	return errs
}

func orUnavailable(s string) string {
	if s == "" {
		return Unavailable
	}
	return s
}
