//go:build rp2040 && !rp2350

package main

import (
	"runtime/volatile"
	"unsafe"
)

// RP2040 Timer peripheral memory map
const (
	timerBase     = 0x40054000
	timerTIMERAWH = timerBase + 0x24 // Raw timer high word
	timerTIMERAWL = timerBase + 0x28 // Raw timer low word
)

var (
	timerRawH = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWH)))
	timerRawL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))
)

const mcuName = "rp2040"
