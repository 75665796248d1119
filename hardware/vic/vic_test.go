package vic

import "testing"

type stubBus struct{}

func (stubBus) VICRead(address uint16) uint8  { return 0 }
func (stubBus) VICColor(index uint16) uint8   { return 0 }

func TestSpriteXRegisterRoundTripsWithMSBBit(t *testing.T) {
	v := New(PAL, stubBus{}, nil)
	v.Access(0x00, 0xfe, true) // sprite 0 X low byte
	v.Access(0x10, 0x01, true) // sprite 0 X MSB set
	if v.SpriteX[0] != 0x1fe {
		t.Fatalf("SpriteX[0] = %#03x, want 0x1fe", v.SpriteX[0])
	}
	if got := v.Access(0x00, 0, false); got != 0xfe {
		t.Fatalf("read back sprite X low byte = %#02x, want 0xfe", got)
	}
}

func TestRasterIRQFiresWhenLineMatchesAndMaskEnabled(t *testing.T) {
	var asserted bool
	v := New(PAL, stubBus{}, nil)
	v.InterruptLine = func(a bool) { asserted = a }
	v.Access(0x1a, 0x01, true) // enable raster IRQ
	v.Access(0x12, 0x05, true) // compare at line 5

	for line := 0; line < 6; line++ {
		for c := 0; c < v.t.cyclesPerLine; c++ {
			v.Tick()
		}
	}
	if !asserted {
		t.Fatalf("raster IRQ should have asserted once RasterLine reached the compare value")
	}
	if v.IRQData&0x80 == 0 {
		t.Fatalf("IRQData bit 7 should be set once an enabled source fires")
	}
}

func TestAckingIRQClearsLatchAndDeassertsLine(t *testing.T) {
	var asserted bool
	v := New(PAL, stubBus{}, nil)
	v.InterruptLine = func(a bool) { asserted = a }
	v.setIRQ(IRQRaster)
	v.Access(0x1a, 0x01, true)
	v.setIRQ(IRQRaster)
	if !asserted {
		t.Fatalf("setup: IRQ should be asserted before the ack")
	}
	v.Access(0x19, 0x01, true) // ack raster source
	if asserted {
		t.Fatalf("acking the only pending source should deassert the IRQ line")
	}
}

func TestBadLineStealsBusOnce(t *testing.T) {
	stolen := 0
	var stealCycles int
	v := New(PAL, stubBus{}, func(n int) { stolen++; stealCycles = n })
	v.Access(0x11, 0x10, true) // DEN set, YSCROLL 0 so line 0x30 (divisible by 8) is a badline row

	// run lines until the raster reaches $30, the first line in the
	// badline-eligible range, then one full line to cross its DMA window.
	for v.RasterLine != 0x30 {
		for c := 0; c < v.t.cyclesPerLine; c++ {
			v.Tick()
		}
	}
	for c := 0; c < v.t.cyclesPerLine; c++ {
		v.Tick()
	}
	if stolen == 0 {
		t.Fatalf("a badline should have stolen the bus at least once")
	}
	if stealCycles != 40 {
		t.Fatalf("stolen cycle count = %d, want 40", stealCycles)
	}
}

func TestSpriteCollisionRegisterClearsOnRead(t *testing.T) {
	v := New(PAL, stubBus{}, nil)
	v.SpriteSprite = 0x03
	if got := v.Access(0x1e, 0, false); got != 0x03 {
		t.Fatalf("first read = %#02x, want 0x03", got)
	}
	if got := v.Access(0x1e, 0, false); got != 0 {
		t.Fatalf("second read = %#02x, want 0 (cleared by the first read)", got)
	}
}

func TestSpriteDMAStealsTwoCyclesPerActiveSprite(t *testing.T) {
	var stolen, stealCycles int
	v := New(PAL, stubBus{}, func(n int) { stolen++; stealCycles += n })
	v.SpriteEnable = 0x03  // sprites 0 and 1 enabled
	v.SpriteY[0] = 0
	v.SpriteY[1] = 0 // both on raster line 0, well within their 21-line band

	for c := 0; c < 58; c++ {
		v.Tick()
	}
	if stolen == 0 {
		t.Fatalf("active sprites in Y-range should have stolen the bus at cycle 58")
	}
	if stealCycles != 4 {
		t.Fatalf("stolen cycle count = %d, want 4 (2 sprites x 2 cycles)", stealCycles)
	}
}

func TestSpriteDMADoesNotStealWhenNoSpriteIsInRange(t *testing.T) {
	stolen := 0
	v := New(PAL, stubBus{}, func(n int) { stolen++ })
	v.SpriteEnable = 0x01
	v.SpriteY[0] = 100 // far outside raster line 0's band

	for c := 0; c < 58; c++ {
		v.Tick()
	}
	if stolen != 0 {
		t.Fatalf("no sprite in its Y-range should steal no cycles, got %d steals", stolen)
	}
}

type renderTestBus struct{}

func (renderTestBus) VICRead(address uint16) uint8 {
	switch address {
	case 0x400: // screen cell (row 0, col 0) with MemPtr VM bits set to 0x10
		return 0x41
	case 0x41 * 8: // char data row 0 of code 0x41
		return 0xff
	}
	return 0
}

func (renderTestBus) VICColor(index uint16) uint8 { return 0x05 }

func TestRenderLinePaintsCharacterCellIntoFrameBuffer(t *testing.T) {
	v := New(PAL, renderTestBus{}, nil)
	v.Access(0x11, 0x10, true) // DEN set
	v.Access(0x18, 0x10, true) // MemPtr: screen at $0400, chars at $0000

	for v.RasterLine != 0x30 {
		for c := 0; c < v.t.cyclesPerLine; c++ {
			v.Tick()
		}
	}
	for c := 0; c < v.t.cyclesPerLine; c++ {
		v.Tick()
	}

	if v.FrameBuffer[0][0] != 0x05 {
		t.Fatalf("FrameBuffer[0][0] = %d, want color 5 from a solid glyph row", v.FrameBuffer[0][0])
	}
}

func TestLightPenLatchesOnFallingEdgeOnly(t *testing.T) {
	v := New(PAL, stubBus{}, nil)
	v.TriggerLightPen(true)
	if v.IRQData&IRQLightPen != 0 {
		t.Fatalf("asserting LP should not latch by itself, only the falling edge does")
	}
	for c := 0; c < 63; c++ { // cross into raster line 1
		v.Tick()
	}
	v.TriggerLightPen(false) // falling edge
	if v.LightPenY != uint8(v.RasterLine) {
		t.Fatalf("LightPenY = %d, want the current raster line %d latched on the falling edge", v.LightPenY, v.RasterLine)
	}
	if v.IRQData&IRQLightPen == 0 {
		t.Fatalf("a falling LP edge should raise the light-pen interrupt source")
	}
}

func TestUnusedBitsReadAsOnesOnColorRegisters(t *testing.T) {
	v := New(PAL, stubBus{}, nil)
	v.Access(0x20, 0x05, true)
	if got := v.Access(0x20, 0, false); got != 0xf5 {
		t.Fatalf("BorderColor read = %#02x, want 0xf5 (high nibble forced to 1)", got)
	}
}
