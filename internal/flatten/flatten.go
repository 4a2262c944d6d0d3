// Package flatten converts parsed nmap scan runs into a flat sequence of
// per-port records. The transformation is a single pass over hosts and
// ports in document order; it has no side effects and never fails on
// missing optional fields, which default to empty values or omission.
package flatten

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Ullaakut/nmap/v2"
)

// StatusFilter selects which port states contribute records.
type StatusFilter string

const (
	StatusAll      StatusFilter = "all"
	StatusOpen     StatusFilter = "open"
	StatusClosed   StatusFilter = "closed"
	StatusFiltered StatusFilter = "filtered"
)

// addrTypeIPv4 is the address type tag selecting the record IP.
const addrTypeIPv4 = "ipv4"

// ParseStatusFilter validates a status filter value. The empty string
// selects the default filter, which keeps every port.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch StatusFilter(s) {
	case StatusAll, StatusOpen, StatusClosed, StatusFiltered:
		return StatusFilter(s), nil
	case "":
		return StatusAll, nil
	}
	return "", fmt.Errorf("invalid status filter %q (valid: all, open, closed, filtered)", s)
}

// String returns the filter value as a plain string.
func (f StatusFilter) String() string {
	return string(f)
}

// Record is one flattened host/port observation.
type Record struct {
	FQDN           string            `json:"fqdn"`
	IP             string            `json:"ip"`
	Port           string            `json:"port"`
	PortStatus     string            `json:"port_status"`
	Service        string            `json:"service"`
	ServiceDetails map[string]string `json:"detailed_service_info,omitempty"`
	ScriptOutput   map[string]string `json:"script_output,omitempty"`
}

// Transform flattens a parsed scan run into per-port records.
//
// Hosts without an ipv4 address are skipped entirely, so every record
// carries a non-empty IP. When the filter is not StatusAll, only ports
// whose state matches it are emitted. Output preserves document order of
// hosts, then ports within each host; nothing is sorted or merged.
func Transform(run *nmap.Run, filter StatusFilter) []Record {
	records := make([]Record, 0)
	if run == nil {
		return records
	}

	for i := range run.Hosts {
		host := &run.Hosts[i]

		ip := ipv4Address(host)
		if ip == "" {
			continue
		}
		fqdn := primaryHostname(host)

		for j := range host.Ports {
			port := &host.Ports[j]

			state := port.State.State
			if filter != StatusAll && state != string(filter) {
				continue
			}

			records = append(records, Record{
				FQDN:           fqdn,
				IP:             ip,
				Port:           fmt.Sprintf("%s/%d", strings.ToUpper(port.Protocol), port.ID),
				PortStatus:     state,
				Service:        port.Service.Name,
				ServiceDetails: serviceDetails(&port.Service),
				ScriptOutput:   scriptOutput(port.Scripts),
			})
		}
	}

	return records
}

// ipv4Address returns the first ipv4-tagged address of the host in
// document order, or "" when the host has none. Additional ipv4
// addresses are ignored; the first one always wins.
func ipv4Address(host *nmap.Host) string {
	for i := range host.Addresses {
		if host.Addresses[i].AddrType == addrTypeIPv4 {
			return host.Addresses[i].Addr
		}
	}
	return ""
}

// primaryHostname returns the first hostname recorded for the host, or ""
// when the host has none.
func primaryHostname(host *nmap.Host) string {
	if len(host.Hostnames) == 0 {
		return ""
	}
	return host.Hostnames[0].Name
}

// serviceDetails collects the non-empty detail attributes of a service.
// When product or version is present a combined_info entry joins
// whichever of the two exist, product first. Returns nil when the
// service carries no details so the record omits the field.
func serviceDetails(svc *nmap.Service) map[string]string {
	details := make(map[string]string)

	if svc.Product != "" {
		details["product"] = svc.Product
	}
	if svc.Version != "" {
		details["version"] = svc.Version
	}
	if svc.ExtraInfo != "" {
		details["extrainfo"] = svc.ExtraInfo
	}
	if svc.Method != "" {
		details["method"] = svc.Method
	}
	// nmap reports conf="0" only when it knows nothing about the service.
	if svc.Confidence != 0 {
		details["conf"] = strconv.Itoa(svc.Confidence)
	}

	if svc.Product != "" || svc.Version != "" {
		combined := make([]string, 0, 2)
		if svc.Product != "" {
			combined = append(combined, svc.Product)
		}
		if svc.Version != "" {
			combined = append(combined, svc.Version)
		}
		details["combined_info"] = strings.Join(combined, " ")
	}

	if len(details) == 0 {
		return nil
	}
	return details
}

// scriptOutput maps script ids to their output for scripts that carry a
// non-empty id. Returns nil when no script qualifies so the record omits
// the field.
func scriptOutput(scripts []nmap.Script) map[string]string {
	if len(scripts) == 0 {
		return nil
	}

	out := make(map[string]string, len(scripts))
	for i := range scripts {
		if scripts[i].ID == "" {
			continue
		}
		out[scripts[i].ID] = scripts[i].Output
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
