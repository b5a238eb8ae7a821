package network

import (
	"errors"
	"fmt"
	"net/netip"
)

const (
	// FirstOctet anchors every iteration subnet in 10.0.0.0/8.
	FirstOctet = 10

	// SubnetBits is the prefix length of an iteration subnet.
	SubnetBits = 28

	// BlockSize is the number of addresses in an iteration subnet.
	BlockSize = 1 << (32 - SubnetBits)

	// MaxIndex is the largest index representable in the 20 free bits.
	MaxIndex = 1<<20 - 1

	// MinOffset and MaxOffset bound host offsets within a block.
	MinOffset = 1
	MaxOffset = BlockSize - 1

	// CoreOffset and BaseStationOffset are the role addresses in every block.
	CoreOffset        = 3
	BaseStationOffset = 5
)

var (
	// ErrAddressSpaceExhausted is returned for indexes outside [0, MaxIndex].
	ErrAddressSpaceExhausted = errors.New("index outside the /28 address space")

	// ErrOffsetOutOfRange is returned for host offsets outside [MinOffset, MaxOffset].
	ErrOffsetOutOfRange = errors.New("host offset outside a /28 block")
)

// Allocation holds the addresses assigned to one container group.
type Allocation struct {
	Index       int
	Subnet      netip.Prefix
	Core        netip.Addr
	BaseStation netip.Addr
}

// octets splits an index into the second, third and fourth (block base) octets.
func octets(index int) (byte, byte, byte, error) {
	if index < 0 || index > MaxIndex {
		return 0, 0, 0, fmt.Errorf("%w: %d (valid range 0-%d)", ErrAddressSpaceExhausted, index, MaxIndex)
	}
	second := byte(index >> 12)
	third := byte((index & 0xff0) >> 4)
	fourth := byte(BlockSize * (index & 0xf))
	return second, third, fourth, nil
}

// Subnet returns the /28 owned by index.
func Subnet(index int) (netip.Prefix, error) {
	second, third, fourth, err := octets(index)
	if err != nil {
		return netip.Prefix{}, err
	}
	addr := netip.AddrFrom4([4]byte{FirstOctet, second, third, fourth})
	return netip.PrefixFrom(addr, SubnetBits), nil
}

// SubnetString returns the subnet for index in CIDR notation.
func SubnetString(index int) (string, error) {
	p, err := Subnet(index)
	if err != nil {
		return "", err
	}
	return p.String(), nil
}

// HostIP returns the address at offset within the subnet owned by index.
func HostIP(index, offset int) (netip.Addr, error) {
	if offset < MinOffset || offset > MaxOffset {
		return netip.Addr{}, fmt.Errorf("%w: %d (valid range %d-%d)", ErrOffsetOutOfRange, offset, MinOffset, MaxOffset)
	}
	second, third, fourth, err := octets(index)
	if err != nil {
		return netip.Addr{}, err
	}
	return netip.AddrFrom4([4]byte{FirstOctet, second, third, fourth + byte(offset)}), nil
}

// HostIPString returns HostIP in dotted-quad form.
func HostIPString(index, offset int) (string, error) {
	addr, err := HostIP(index, offset)
	if err != nil {
		return "", err
	}
	return addr.String(), nil
}

// Allocate returns the subnet and role addresses for index.
func Allocate(index int) (Allocation, error) {
	subnet, err := Subnet(index)
	if err != nil {
		return Allocation{}, err
	}
	core, err := HostIP(index, CoreOffset)
	if err != nil {
		return Allocation{}, err
	}
	enb, err := HostIP(index, BaseStationOffset)
	if err != nil {
		return Allocation{}, err
	}
	return Allocation{
		Index:       index,
		Subnet:      subnet,
		Core:        core,
		BaseStation: enb,
	}, nil
}
