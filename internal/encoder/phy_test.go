package encoder_test

import (
	"testing"

	"github.com/pimedia/hdmilink/internal/encoder"
	"github.com/pimedia/hdmilink/internal/hw"
	"github.com/pimedia/hdmilink/internal/regmap"
)

func TestRegisterPHY(t *testing.T) {
	bus := hw.NewMock()
	phy, err := encoder.NewRegisterPHY(bus, encoder.BCM2835)
	if err != nil {
		t.Fatal(err)
	}
	resetB, resetOff, _ := encoder.BCM2835.Layout.Lookup(regmap.TXPHYResetCtl)
	ctlB, ctlOff, _ := encoder.BCM2835.Layout.Lookup(regmap.TXPHYCtl0)

	if err := phy.Init(mustMode(t, "1280x720@60")); err != nil {
		t.Fatal(err)
	}
	// Init pulses the lane resets and leaves them released.
	writes := bus.Writes()
	if len(writes) != 2 ||
		writes[0] != (hw.WriteRecord{Block: resetB, Offset: resetOff, Val: regmap.TXPHYResetAll}) ||
		writes[1] != (hw.WriteRecord{Block: resetB, Offset: resetOff, Val: 0}) {
		t.Errorf("init writes = %+v", writes)
	}

	bus.Poke(ctlB, ctlOff, regmap.TXPHYRNGPowerDown)
	phy.RNGEnable()
	if got := bus.Read(ctlB, ctlOff); got&regmap.TXPHYRNGPowerDown != 0 {
		t.Errorf("TX_PHY_CTL_0 = %#x, RNG still powered down", got)
	}
	phy.RNGDisable()
	if got := bus.Read(ctlB, ctlOff); got&regmap.TXPHYRNGPowerDown == 0 {
		t.Errorf("TX_PHY_CTL_0 = %#x, RNG not powered down", got)
	}

	phy.Disable()
	if got := bus.Read(resetB, resetOff); got != regmap.TXPHYResetAll {
		t.Errorf("TX_PHY_RESET_CTL = %#x after disable", got)
	}
}

func TestRegisterPHYRequiresRegisters(t *testing.T) {
	if _, err := encoder.NewRegisterPHY(hw.NewMock(), encoder.BCM2711HDMI0); err == nil {
		t.Error("bcm2711 should have no register-driven PHY")
	}
}
