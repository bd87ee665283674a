package config

import (
	"errors"
	"testing"

	"github.com/shortdrama-cli/shortdrama/filesystem"
	"github.com/shortdrama-cli/shortdrama/key"
	"github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	convey.Convey("Given a fresh config", t, func() {
		convey.So(Setup(), convey.ShouldBeNil)

		convey.Convey("Every default is visible through viper", func() {
			for name := range Default {
				convey.So(viper.Get(name), convey.ShouldNotBeNil)
			}
			convey.So(viper.GetString(key.CatalogBaseURL), convey.ShouldEqual, "https://galaxy-api.galaxydve.com")
			convey.So(viper.GetInt(key.SearchDebounce), convey.ShouldEqual, 300)
			convey.So(viper.GetBool(key.PlayerWrapAround), convey.ShouldBeFalse)
		})

		convey.Convey("Keys map to env suffixes", func() {
			convey.So(EnvKeyReplacer.Replace("player.autoplay_delay"), convey.ShouldEqual, "player_autoplay_delay")
		})
	})
}

func TestField(t *testing.T) {
	convey.Convey("Given the autoplay delay field", t, func() {
		field := Default[key.PlayerAutoplayDelay]

		convey.Convey("Env is prefixed with the application name", func() {
			convey.So(field.Env(), convey.ShouldEqual, "SHORTDRAMA_PLAYER_AUTOPLAY_DELAY")
		})

		convey.Convey("It belongs to the player section", func() {
			convey.So(field.Section(), convey.ShouldEqual, "player")
		})

		convey.Convey("typeName reflects the default value", func() {
			convey.So(field.typeName(), convey.ShouldEqual, "int")
			wrap := Default[key.PlayerWrapAround]
			convey.So(wrap.typeName(), convey.ShouldEqual, "bool")
		})

		convey.Convey("Pretty includes the key", func() {
			convey.So(field.Pretty(), convey.ShouldContainSubstring, key.PlayerAutoplayDelay)
		})

		convey.Convey("Parse accepts integers only", func() {
			v, err := field.Parse([]string{"750"})
			convey.So(err, convey.ShouldBeNil)
			convey.So(v, convey.ShouldEqual, 750)

			_, err = field.Parse([]string{"soon"})
			convey.So(err, convey.ShouldNotBeNil)

			_, err = field.Parse([]string{"-1"})
			convey.So(err, convey.ShouldNotBeNil)
		})
	})

	convey.Convey("Given a field with choices", t, func() {
		field := Default[key.PlayerDefaultQuality]

		convey.Convey("Only listed values parse", func() {
			v, err := field.Parse([]string{"1080p"})
			convey.So(err, convey.ShouldBeNil)
			convey.So(v, convey.ShouldEqual, "1080p")

			_, err = field.Parse([]string{"4k"})
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("Pretty lists them", func() {
			convey.So(field.Pretty(), convey.ShouldContainSubstring, "480p")
		})
	})

	convey.Convey("Given a secret field", t, func() {
		field := Default[key.CatalogAPISecret]

		convey.Convey("Its value is masked", func() {
			convey.So(field.Current(), convey.ShouldEqual, "********")
			convey.So(field.Pretty(), convey.ShouldNotContainSubstring, "GaLx")

			raw, err := field.MarshalJSON()
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(raw), convey.ShouldNotContainSubstring, "GaLx")
		})
	})
}

func TestLookup(t *testing.T) {
	convey.Convey("Given a mistyped key", t, func() {
		_, err := Lookup("player.autoply")

		convey.Convey("It is unknown and the nearest key is suggested", func() {
			convey.So(errors.Is(err, ErrUnknownKey), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, key.PlayerAutoplay)
		})
	})

	convey.Convey("Set and Reset go through the field", t, func() {
		convey.So(Setup(), convey.ShouldBeNil)

		v, err := Set(key.PlayerWrapAround, []string{"true"})
		convey.So(err, convey.ShouldBeNil)
		convey.So(v, convey.ShouldEqual, true)
		convey.So(viper.GetBool(key.PlayerWrapAround), convey.ShouldBeTrue)

		_, err = Reset(key.PlayerWrapAround)
		convey.So(err, convey.ShouldBeNil)
		convey.So(viper.GetBool(key.PlayerWrapAround), convey.ShouldBeFalse)

		_, err = Set(key.IconsVariant, []string{"sparkles"})
		convey.So(err, convey.ShouldNotBeNil)
	})

	convey.Convey("Sections group fields by prefix", t, func() {
		sections := Sections()
		convey.So(sections, convey.ShouldContainKey, "player")
		convey.So(len(sections["account"]), convey.ShouldEqual, 2)
	})
}
