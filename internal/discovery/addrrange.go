package discovery

import (
	"encoding/binary"
	"errors"
	"fmt"
	"iter"
	"net/netip"
)

// ErrInvalidConfig is returned when a discovery configuration cannot be used
// to derive a candidate address range.
var ErrInvalidConfig = errors.New("invalid discovery config")

// Range is the ordered set of usable host addresses of an IPv4 network.
// Bounds are inclusive.
type Range struct {
	first uint32
	last  uint32
}

// NewRange computes the host range for subnet/mask. The subnet is masked down
// to its network address first, so 192.168.1.77/24 and 192.168.1.0/24 yield
// the same range.
//
// For mask 0-30 the network and broadcast addresses are excluded. A /31 is a
// point-to-point link and yields both addresses; a /32 yields the single
// address.
func NewRange(subnet netip.Addr, mask int) (Range, error) {
	if mask < 0 || mask > 32 {
		return Range{}, fmt.Errorf("%w: mask /%d out of range (0-32)", ErrInvalidConfig, mask)
	}
	subnet = subnet.Unmap()
	if !subnet.Is4() {
		return Range{}, fmt.Errorf("%w: subnet %q is not an IPv4 address", ErrInvalidConfig, subnet)
	}

	b := subnet.As4()
	base := binary.BigEndian.Uint32(b[:])

	var netmask uint32
	if mask > 0 {
		netmask = ^uint32(0) << (32 - mask)
	}
	network := base & netmask
	broadcast := network | ^netmask

	switch mask {
	case 32:
		return Range{first: network, last: network}, nil
	case 31:
		return Range{first: network, last: broadcast}, nil
	default:
		return Range{first: network + 1, last: broadcast - 1}, nil
	}
}

// Len returns the number of addresses in the range
func (r Range) Len() int {
	return int(uint64(r.last-r.first) + 1)
}

// First returns the lowest address in the range
func (r Range) First() netip.Addr {
	return addrFromUint32(r.first)
}

// Last returns the highest address in the range
func (r Range) Last() netip.Addr {
	return addrFromUint32(r.last)
}

// All yields every address in ascending order without materializing the range.
func (r Range) All() iter.Seq[netip.Addr] {
	return func(yield func(netip.Addr) bool) {
		for v := r.first; ; v++ {
			if !yield(addrFromUint32(v)) {
				return
			}
			if v == r.last {
				return
			}
		}
	}
}

// HostAddresses returns the usable host addresses of subnet/mask in ascending
// order. See NewRange for the exclusion rules.
func HostAddresses(subnet netip.Addr, mask int) ([]netip.Addr, error) {
	r, err := NewRange(subnet, mask)
	if err != nil {
		return nil, err
	}

	addrs := make([]netip.Addr, 0, r.Len())
	for addr := range r.All() {
		addrs = append(addrs, addr)
	}
	return addrs, nil
}

func addrFromUint32(v uint32) netip.Addr {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return netip.AddrFrom4(b)
}
