package icon

import (
	"testing"

	"github.com/shortdrama-cli/shortdrama/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestGet(t *testing.T) {
	Convey("Every registered icon renders in every variant", t, func() {
		for _, variant := range AvailableVariants() {
			viper.Set(key.IconsVariant, variant)
			for i := range icons {
				So(Get(i), ShouldNotBeEmpty)
			}
		}
	})

	Convey("An unknown variant renders nothing", t, func() {
		viper.Set(key.IconsVariant, "")
		So(Get(Saved), ShouldBeEmpty)
	})

	Convey("An icon outside the registry renders nothing", t, func() {
		viper.Set(key.IconsVariant, "plain")
		So(Get(Icon(-1)), ShouldBeEmpty)
	})
}

func TestValid(t *testing.T) {
	Convey("Valid matches the listed variants", t, func() {
		for _, variant := range AvailableVariants() {
			So(Valid(variant), ShouldBeTrue)
		}
		So(Valid("sparkles"), ShouldBeFalse)
	})
}
