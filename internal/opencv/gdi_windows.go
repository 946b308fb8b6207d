//go:build windows

package opencv

import (
	"fmt"
	"image"
	"syscall"
	"unsafe"
)

func init() {
	// Per-monitor DPI awareness makes GetClientRect report physical pixels,
	// otherwise captures on scaled displays come out cropped.
	procSetProcessDpiAwareness.Call(uintptr(2))
}

var (
	modUser32         = syscall.NewLazyDLL("User32.dll")
	procFindWindow    = modUser32.NewProc("FindWindowW")
	procGetClientRect = modUser32.NewProc("GetClientRect")
	procGetDC         = modUser32.NewProc("GetDC")
	procReleaseDC     = modUser32.NewProc("ReleaseDC")

	modGdi32               = syscall.NewLazyDLL("Gdi32.dll")
	procBitBlt             = modGdi32.NewProc("BitBlt")
	procCreateCompatibleDC = modGdi32.NewProc("CreateCompatibleDC")
	procCreateDIBSection   = modGdi32.NewProc("CreateDIBSection")
	procDeleteDC           = modGdi32.NewProc("DeleteDC")
	procDeleteObject       = modGdi32.NewProc("DeleteObject")
	procSelectObject       = modGdi32.NewProc("SelectObject")

	modShcore                  = syscall.NewLazyDLL("Shcore.dll")
	procSetProcessDpiAwareness = modShcore.NewProc("SetProcessDpiAwareness")
)

const srcCopy = 0x00CC0020

type rect struct {
	Left, Top, Right, Bottom int32
}

type bitmapInfoHeader struct {
	BiSize          uint32
	BiWidth         int32
	BiHeight        int32
	BiPlanes        uint16
	BiBitCount      uint16
	BiCompression   uint32
	BiSizeImage     uint32
	BiXPelsPerMeter int32
	BiYPelsPerMeter int32
	BiClrUsed       uint32
	BiClrImportant  uint32
}

type bitmapInfo struct {
	Header bitmapInfoHeader
	Colors *[4]byte
}

func findWindow(title string) (syscall.Handle, error) {
	name, err := syscall.UTF16PtrFromString(title)
	if err != nil {
		return 0, err
	}
	ret, _, _ := procFindWindow.Call(0, uintptr(unsafe.Pointer(name)))
	if ret == 0 {
		return 0, fmt.Errorf("window %q not found, is it open?", title)
	}
	return syscall.Handle(ret), nil
}

func clientRect(hwnd syscall.Handle) (image.Rectangle, error) {
	var r rect
	ret, _, err := procGetClientRect.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&r)))
	if ret == 0 {
		return image.Rectangle{}, fmt.Errorf("get window dimensions: %w", err)
	}
	return image.Rect(0, 0, int(r.Right), int(r.Bottom)), nil
}

// grabWindow copies the client area of hwnd into an RGBA image. The DIB is
// bottom-up, so the result is upside down.
func grabWindow(hwnd syscall.Handle, area image.Rectangle) (*image.RGBA, error) {
	width, height := area.Dx(), area.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("window has empty client area %v", area)
	}

	dcSrc, _, err := procGetDC.Call(uintptr(hwnd))
	if dcSrc == 0 {
		return nil, fmt.Errorf("get window DC: %w", err)
	}
	defer procReleaseDC.Call(uintptr(hwnd), dcSrc)

	dcDst, _, err := procCreateCompatibleDC.Call(dcSrc)
	if dcDst == 0 {
		return nil, fmt.Errorf("create compatible DC: %w", err)
	}
	defer procDeleteDC.Call(dcDst)

	info := bitmapInfo{Header: bitmapInfoHeader{
		BiWidth:    int32(width),
		BiHeight:   int32(height),
		BiPlanes:   1,
		BiBitCount: 32,
	}}
	info.Header.BiSize = uint32(unsafe.Sizeof(info.Header))

	var bits unsafe.Pointer
	bitmap, _, err := procCreateDIBSection.Call(
		dcDst,
		uintptr(unsafe.Pointer(&info)),
		0,
		uintptr(unsafe.Pointer(&bits)), 0, 0)
	if bitmap == 0 {
		return nil, fmt.Errorf("create DIB section: %w", err)
	}
	defer procDeleteObject.Call(bitmap)

	procSelectObject.Call(dcDst, bitmap)
	ret, _, err := procBitBlt.Call(
		dcDst, 0, 0, uintptr(width), uintptr(height),
		dcSrc, uintptr(area.Min.X), uintptr(area.Min.Y), srcCopy)
	if ret == 0 {
		return nil, fmt.Errorf("bitblt: %w", err)
	}

	raw := unsafe.Slice((*byte)(bits), width*height*4)
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(raw); i += 4 {
		// BGRA -> RGBA, alpha is undefined for window DCs
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = raw[i+2], raw[i+1], raw[i], 0xFF
	}
	return img, nil
}
