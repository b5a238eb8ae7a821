package generator

import (
	"fmt"
	"strconv"

	"github.com/ranfuzz/ranfuzz-ctl/internal/network"
)

// Field paths set on every rendered descriptor.
const (
	pathUECommand       = "services.srsue.command"
	pathCoreCommand     = "services.srsepc.command"
	pathBaseCommand     = "services.srsenb.command"
	pathCoreAddress     = "services.srsepc.networks.corenet.ipv4_address"
	pathBaseAddress     = "services.srsenb.networks.corenet.ipv4_address"
	pathBaseCaptures    = "services.srsenb.volumes.0"
	pathSubnet          = "networks.corenet.ipam.config.0.subnet"
	pathCoreContainer   = "services.srsepc.container_name"
	pathBaseContainer   = "services.srsenb.container_name"
	pathUEContainer     = "services.srsue.container_name"
	containerNamePrefix = "virtual-"
)

// Render produces the Compose descriptor for index from tmpl.
func Render(tmpl *Template, index int) (*Document, network.Allocation, error) {
	alloc, err := network.Allocate(index)
	if err != nil {
		return nil, alloc, fmt.Errorf("index %d: %w", index, err)
	}

	doc, err := tmpl.document()
	if err != nil {
		return nil, alloc, err
	}

	n := strconv.Itoa(index)
	core := alloc.Core.String()
	enb := alloc.BaseStation.String()

	fields := []struct {
		path  string
		value string
	}{
		{pathUECommand, "stdbuf -oL srsue /etc/srsran/ue.conf.fauxrf -f" + n},
		{pathCoreCommand, "stdbuf -oL srsepc /etc/srsran/epc.conf --mme.mme_bind_addr=" + core + " --spgw.gtpu_bind_addr=" + core},
		{pathCoreAddress, core},
		{pathBaseCommand, "srsenb /etc/srsran/enb.conf.fauxrf --enb.mme_addr=" + core + " --enb.gtp_bind_addr=" + enb + " --enb.s1c_bind_addr=" + enb},
		{pathBaseCaptures, "./pcaps/" + n + ":/pcaps/"},
		{pathBaseAddress, enb},
		{pathSubnet, alloc.Subnet.String()},
		{pathCoreContainer, containerNamePrefix + "srsepc" + n},
		{pathBaseContainer, containerNamePrefix + "srsenb" + n},
		{pathUEContainer, containerNamePrefix + "srsue" + n},
	}

	for _, f := range fields {
		if err := doc.Set(f.path, f.value); err != nil {
			return nil, alloc, fmt.Errorf("template %s: %w", tmpl.Path, err)
		}
	}

	return doc, alloc, nil
}
