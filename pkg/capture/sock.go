package capture

import (
	"encoding/binary"
	"syscall"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Both openRawSock and htons are available in
// https://github.com/cilium/ebpf/blob/master/example_sock_elf_test.go.
// MIT license.

func OpenRawSocket(ifIndex int) (int, error) {
	sock, err := syscall.Socket(syscall.AF_PACKET, syscall.SOCK_RAW|syscall.SOCK_NONBLOCK|syscall.SOCK_CLOEXEC, int(htons(syscall.ETH_P_ALL)))
	if err != nil {
		return 0, errors.Wrap(err, "syscall.Socket")
	}

	err = syscall.Bind(sock, &syscall.SockaddrLinklayer{Ifindex: ifIndex, Protocol: htons(syscall.ETH_P_ALL)})
	if err != nil {
		syscall.Close(sock)
		return 0, errors.Wrap(err, "syscall.Bind")
	}
	return sock, nil
}

// Set socket level PROMISC mode
func SetPacketMembership(fd int, ifIndex int32) error {
	return unix.SetsockoptPacketMreq(fd, unix.SOL_PACKET, unix.PACKET_ADD_MEMBERSHIP, &unix.PacketMreq{Type: unix.PACKET_MR_PROMISC, Ifindex: ifIndex})
}

// Enable PACKET_AUXDATA option for VLAN
func SetPacketAuxData(fd int) error {
	return syscall.SetsockoptInt(fd, syscall.SOL_PACKET, unix.PACKET_AUXDATA, 1)
}

const (
	bpfLdhAbs  = 0x28
	bpfLdbAbs  = 0x30
	bpfLdhInd  = 0x48
	bpfLdxbMsh = 0xb1
	bpfJeqK    = 0x15
	bpfJsetK   = 0x45
	bpfRetK    = 0x06

	snapLen = 0x40000
)

// udpPortFilter is "ip and udp port <port>" over Ethernet, unfragmented
// datagrams only.
func udpPortFilter(port uint16) []unix.SockFilter {
	return []unix.SockFilter{
		{Code: bpfLdhAbs, K: 12},
		{Code: bpfJeqK, Jf: 10, K: syscall.ETH_P_IP},
		{Code: bpfLdbAbs, K: 23},
		{Code: bpfJeqK, Jf: 8, K: syscall.IPPROTO_UDP},
		{Code: bpfLdhAbs, K: 20},
		{Code: bpfJsetK, Jt: 6, K: 0x1fff},
		{Code: bpfLdxbMsh, K: 14},
		{Code: bpfLdhInd, K: 14},
		{Code: bpfJeqK, Jt: 2, K: uint32(port)},
		{Code: bpfLdhInd, K: 16},
		{Code: bpfJeqK, Jf: 1, K: uint32(port)},
		{Code: bpfRetK, K: snapLen},
		{Code: bpfRetK, K: 0},
	}
}

// AttachUDPPortFilter drops everything but UDP traffic on port in the kernel.
func AttachUDPPortFilter(fd int, port uint16) error {
	filter := udpPortFilter(port)
	prog := unix.SockFprog{Len: uint16(len(filter)), Filter: &filter[0]}
	return unix.SetsockoptSockFprog(fd, unix.SOL_SOCKET, unix.SO_ATTACH_FILTER, &prog)
}

// htons converts the unsigned short integer hostshort from host byte order to network byte order.
func htons(i uint16) uint16 {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, i)
	return *(*uint16)(unsafe.Pointer(&b[0]))
}
