//go:build windows

package hwid

import (
	"context"
	"fmt"
	"reflect"
	"sort"

	"github.com/yusufpapurcu/wmi"
)

type win32Processor struct {
	ProcessorId string
}

type win32DiskDrive struct {
	Index        uint32
	SerialNumber string
}

type win32BaseBoard struct {
	SerialNumber string
}

// nativeWMIProbe queries WMI over COM instead of spawning a process.
func nativeWMIProbe(q cimQuery) Probe {
	return NewProbe("wmi", func(ctx context.Context) (string, error) {
		switch q.class {
		case "Win32_Processor":
			var dst []win32Processor
			if err := queryWMI(ctx, "SELECT ProcessorId FROM Win32_Processor", &dst); err != nil {
				return "", err
			}
			for _, p := range dst {
				if v := cleanWMIValue(p.ProcessorId); v != "" {
					return v, nil
				}
			}
		case "Win32_DiskDrive":
			var dst []win32DiskDrive
			if err := queryWMI(ctx, "SELECT Index, SerialNumber FROM Win32_DiskDrive", &dst); err != nil {
				return "", err
			}
			sort.Slice(dst, func(i, j int) bool { return dst[i].Index < dst[j].Index })
			if len(dst) > 0 {
				return cleanWMIValue(dst[0].SerialNumber), nil
			}
		case "Win32_BaseBoard":
			var dst []win32BaseBoard
			if err := queryWMI(ctx, "SELECT SerialNumber FROM Win32_BaseBoard", &dst); err != nil {
				return "", err
			}
			for _, b := range dst {
				if v := cleanWMIValue(b.SerialNumber); v != "" {
					return v, nil
				}
			}
		default:
			return "", fmt.Errorf("wmi: unsupported class %s", q.class)
		}
		return "", fmt.Errorf("wmi: no %s instance", q.class)
	})
}

// queryWMI runs wmi.Query on its own goroutine so ctx can bound it.
func queryWMI(ctx context.Context, query string, dst any) error {
	done := make(chan error, 1)
	// query into a fresh slice so a timed out COM call never writes dst
	tmp := reflect.New(reflect.TypeOf(dst).Elem())
	go func() {
		done <- wmi.Query(query, tmp.Interface())
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("wmi query failed: %w", err)
		}
		reflect.ValueOf(dst).Elem().Set(tmp.Elem())
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
