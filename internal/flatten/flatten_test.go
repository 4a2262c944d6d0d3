package flatten

import (
	"testing"

	"github.com/Ullaakut/nmap/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatusFilter(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    StatusFilter
		wantErr bool
	}{
		{"all", "all", StatusAll, false},
		{"open", "open", StatusOpen, false},
		{"closed", "closed", StatusClosed, false},
		{"filtered", "filtered", StatusFiltered, false},
		{"empty defaults to all", "", StatusAll, false},
		{"unknown value", "bogus", "", true},
		{"case sensitive", "Open", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStatusFilter(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransformSingleHost(t *testing.T) {
	run := &nmap.Run{
		Hosts: []nmap.Host{
			{
				Addresses: []nmap.Address{
					{Addr: "10.0.0.5", AddrType: "ipv4"},
				},
				Hostnames: []nmap.Hostname{
					{Name: "web1", Type: "user"},
				},
				Ports: []nmap.Port{
					{
						ID:       80,
						Protocol: "tcp",
						State:    nmap.State{State: "open"},
						Service: nmap.Service{
							Name:    "http",
							Product: "nginx",
							Version: "1.18",
						},
					},
				},
			},
		},
	}

	records := Transform(run, StatusAll)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "web1", rec.FQDN)
	assert.Equal(t, "10.0.0.5", rec.IP)
	assert.Equal(t, "TCP/80", rec.Port)
	assert.Equal(t, "open", rec.PortStatus)
	assert.Equal(t, "http", rec.Service)
	assert.Equal(t, map[string]string{
		"product":       "nginx",
		"version":       "1.18",
		"combined_info": "nginx 1.18",
	}, rec.ServiceDetails)
	assert.Nil(t, rec.ScriptOutput)
}

func TestTransformSkipsHostsWithoutIPv4(t *testing.T) {
	run := &nmap.Run{
		Hosts: []nmap.Host{
			{
				Addresses: []nmap.Address{
					{Addr: "fe80::1", AddrType: "ipv6"},
					{Addr: "AA:BB:CC:DD:EE:FF", AddrType: "mac"},
				},
				Ports: []nmap.Port{
					{ID: 22, Protocol: "tcp", State: nmap.State{State: "open"}},
				},
			},
		},
	}

	records := Transform(run, StatusAll)
	assert.Empty(t, records, "host without ipv4 address should emit no records")
}

func TestTransformFirstIPv4Wins(t *testing.T) {
	run := &nmap.Run{
		Hosts: []nmap.Host{
			{
				Addresses: []nmap.Address{
					{Addr: "fe80::1", AddrType: "ipv6"},
					{Addr: "192.168.1.10", AddrType: "ipv4"},
					{Addr: "10.10.10.10", AddrType: "ipv4"},
				},
				Ports: []nmap.Port{
					{ID: 443, Protocol: "tcp", State: nmap.State{State: "open"}},
				},
			},
		},
	}

	records := Transform(run, StatusAll)
	require.Len(t, records, 1)
	assert.Equal(t, "192.168.1.10", records[0].IP,
		"first ipv4 address in document order should win")
}

func TestTransformStatusFilter(t *testing.T) {
	host := nmap.Host{
		Addresses: []nmap.Address{
			{Addr: "10.0.0.1", AddrType: "ipv4"},
		},
		Ports: []nmap.Port{
			{ID: 80, Protocol: "tcp", State: nmap.State{State: "open"}},
			{ID: 81, Protocol: "tcp", State: nmap.State{State: "closed"}},
			{ID: 82, Protocol: "tcp", State: nmap.State{State: "filtered"}},
		},
	}
	run := &nmap.Run{Hosts: []nmap.Host{host}}

	tests := []struct {
		name      string
		filter    StatusFilter
		wantPorts []string
	}{
		{"all keeps everything", StatusAll, []string{"TCP/80", "TCP/81", "TCP/82"}},
		{"open", StatusOpen, []string{"TCP/80"}},
		{"closed", StatusClosed, []string{"TCP/81"}},
		{"filtered", StatusFiltered, []string{"TCP/82"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := Transform(run, tt.filter)
			ports := make([]string, 0, len(records))
			for _, rec := range records {
				ports = append(ports, rec.Port)
				if tt.filter != StatusAll {
					assert.Equal(t, string(tt.filter), rec.PortStatus)
				}
			}
			assert.Equal(t, tt.wantPorts, ports)
		})
	}
}

func TestTransformServiceDetails(t *testing.T) {
	tests := []struct {
		name    string
		service nmap.Service
		want    map[string]string
	}{
		{
			name:    "no attributes omits details",
			service: nmap.Service{Name: "ssh"},
			want:    nil,
		},
		{
			name:    "product only",
			service: nmap.Service{Product: "OpenSSH"},
			want: map[string]string{
				"product":       "OpenSSH",
				"combined_info": "OpenSSH",
			},
		},
		{
			name:    "version only",
			service: nmap.Service{Version: "8.9p1"},
			want: map[string]string{
				"version":       "8.9p1",
				"combined_info": "8.9p1",
			},
		},
		{
			name: "all attributes",
			service: nmap.Service{
				Name:       "http",
				Product:    "Apache httpd",
				Version:    "2.4.52",
				ExtraInfo:  "(Ubuntu)",
				Method:     "probed",
				Confidence: 10,
			},
			want: map[string]string{
				"product":       "Apache httpd",
				"version":       "2.4.52",
				"extrainfo":     "(Ubuntu)",
				"method":        "probed",
				"conf":          "10",
				"combined_info": "Apache httpd 2.4.52",
			},
		},
		{
			name:    "method without product or version",
			service: nmap.Service{Method: "table", Confidence: 3},
			want: map[string]string{
				"method": "table",
				"conf":   "3",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := &nmap.Run{
				Hosts: []nmap.Host{
					{
						Addresses: []nmap.Address{{Addr: "10.0.0.1", AddrType: "ipv4"}},
						Ports: []nmap.Port{
							{ID: 22, Protocol: "tcp", State: nmap.State{State: "open"}, Service: tt.service},
						},
					},
				},
			}

			records := Transform(run, StatusAll)
			require.Len(t, records, 1)
			assert.Equal(t, tt.want, records[0].ServiceDetails)
		})
	}
}

func TestTransformScriptOutput(t *testing.T) {
	tests := []struct {
		name    string
		scripts []nmap.Script
		want    map[string]string
	}{
		{
			name:    "no scripts omits output",
			scripts: nil,
			want:    nil,
		},
		{
			name: "scripts without id omit output",
			scripts: []nmap.Script{
				{ID: "", Output: "orphaned"},
			},
			want: nil,
		},
		{
			name: "id keyed output",
			scripts: []nmap.Script{
				{ID: "http-title", Output: "Welcome"},
				{ID: "http-server-header", Output: "nginx"},
			},
			want: map[string]string{
				"http-title":         "Welcome",
				"http-server-header": "nginx",
			},
		},
		{
			name: "empty id skipped among valid scripts",
			scripts: []nmap.Script{
				{ID: "ssl-cert", Output: "CN=example"},
				{ID: "", Output: "dropped"},
			},
			want: map[string]string{
				"ssl-cert": "CN=example",
			},
		},
		{
			name: "script with id but empty output keeps entry",
			scripts: []nmap.Script{
				{ID: "banner"},
			},
			want: map[string]string{
				"banner": "",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := &nmap.Run{
				Hosts: []nmap.Host{
					{
						Addresses: []nmap.Address{{Addr: "10.0.0.1", AddrType: "ipv4"}},
						Ports: []nmap.Port{
							{ID: 443, Protocol: "tcp", State: nmap.State{State: "open"}, Scripts: tt.scripts},
						},
					},
				},
			}

			records := Transform(run, StatusAll)
			require.Len(t, records, 1)
			assert.Equal(t, tt.want, records[0].ScriptOutput)
		})
	}
}

func TestTransformDocumentOrder(t *testing.T) {
	run := &nmap.Run{
		Hosts: []nmap.Host{
			{
				Addresses: []nmap.Address{{Addr: "10.0.0.1", AddrType: "ipv4"}},
				Ports: []nmap.Port{
					{ID: 443, Protocol: "tcp", State: nmap.State{State: "open"}},
					{ID: 80, Protocol: "tcp", State: nmap.State{State: "open"}},
				},
			},
			{
				Addresses: []nmap.Address{{Addr: "fe80::2", AddrType: "ipv6"}},
				Ports: []nmap.Port{
					{ID: 22, Protocol: "tcp", State: nmap.State{State: "open"}},
				},
			},
			{
				Addresses: []nmap.Address{{Addr: "10.0.0.3", AddrType: "ipv4"}},
				Ports: []nmap.Port{
					{ID: 53, Protocol: "udp", State: nmap.State{State: "open"}},
				},
			},
		},
	}

	records := Transform(run, StatusAll)
	require.Len(t, records, 3)

	assert.Equal(t, "10.0.0.1", records[0].IP)
	assert.Equal(t, "TCP/443", records[0].Port)
	assert.Equal(t, "10.0.0.1", records[1].IP)
	assert.Equal(t, "TCP/80", records[1].Port)
	assert.Equal(t, "10.0.0.3", records[2].IP)
	assert.Equal(t, "UDP/53", records[2].Port)
}

func TestTransformHostWithoutPorts(t *testing.T) {
	run := &nmap.Run{
		Hosts: []nmap.Host{
			{
				Addresses: []nmap.Address{{Addr: "10.0.0.9", AddrType: "ipv4"}},
			},
		},
	}

	records := Transform(run, StatusAll)
	assert.Empty(t, records)
	assert.NotNil(t, records, "result should be an empty slice, not nil")
}

func TestTransformMissingOptionalFields(t *testing.T) {
	run := &nmap.Run{
		Hosts: []nmap.Host{
			{
				Addresses: []nmap.Address{{Addr: "10.0.0.7", AddrType: "ipv4"}},
				Ports: []nmap.Port{
					{ID: 8080},
				},
			},
		},
	}

	records := Transform(run, StatusAll)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "", rec.FQDN)
	assert.Equal(t, "/8080", rec.Port, "missing protocol renders as empty prefix")
	assert.Equal(t, "", rec.PortStatus)
	assert.Equal(t, "", rec.Service)
	assert.Nil(t, rec.ServiceDetails)
	assert.Nil(t, rec.ScriptOutput)
}

func TestTransformDeterministic(t *testing.T) {
	run := &nmap.Run{
		Hosts: []nmap.Host{
			{
				Addresses: []nmap.Address{{Addr: "10.0.0.1", AddrType: "ipv4"}},
				Hostnames: []nmap.Hostname{{Name: "a.example"}},
				Ports: []nmap.Port{
					{
						ID: 80, Protocol: "tcp",
						State:   nmap.State{State: "open"},
						Service: nmap.Service{Name: "http", Product: "nginx"},
						Scripts: []nmap.Script{{ID: "http-title", Output: "Hi"}},
					},
					{ID: 81, Protocol: "tcp", State: nmap.State{State: "closed"}},
				},
			},
		},
	}

	first := Transform(run, StatusOpen)
	second := Transform(run, StatusOpen)
	assert.Equal(t, first, second, "transform must be deterministic for identical input")
}

func TestTransformNilRun(t *testing.T) {
	records := Transform(nil, StatusAll)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}
