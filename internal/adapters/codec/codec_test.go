package codec_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/okian/arena/internal/adapters/codec"
	"github.com/okian/arena/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func sample() model.Collection {
	c := model.DefaultCollection()
	c.Arenas[0].Items = append(c.Arenas[0].Items, model.Item{ID: "A3", Name: "Fuji", Cost: model.NoCost(), Rating: model.DefaultRating()})
	c.Arenas[0].NextItemID = 4
	c.Arenas[0].Outcomes = []model.Outcome{{
		ID:     "6f1c3f7e-0000-4000-8000-000000000001",
		At:     time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC),
		Item1:  "A1",
		Item2:  "A2",
		Winner: "A1",
	}}
	return c
}

func TestCodec(t *testing.T) {
	Convey("Given a collection", t, func() {
		c := sample()

		for _, f := range []codec.Format{codec.FormatJSON, codec.FormatYAML} {
			Convey("When encoding and decoding as "+string(f), func() {
				data, err := codec.Encode(f, c)
				So(err, ShouldBeNil)

				got, err := codec.Decode(f, data)
				So(err, ShouldBeNil)

				Convey("Then the collection survives verbatim", func() {
					So(got, ShouldResemble, c)
				})
			})
		}

		Convey("When encoding as JSON", func() {
			data, err := codec.Encode(codec.FormatJSON, c)
			So(err, ShouldBeNil)

			Convey("Then a missing cost is written as null", func() {
				So(string(data), ShouldContainSubstring, `"cost": null`)
				So(string(data), ShouldContainSubstring, `"next_item_id": 4`)
			})
		})

		Convey("When encoding a single arena", func() {
			data, err := codec.EncodeArena(c.Arenas[0])
			So(err, ShouldBeNil)
			a, err := codec.DecodeArena(data)
			So(err, ShouldBeNil)
			So(a, ShouldResemble, c.Arenas[0])
		})
	})

	Convey("Given hand written documents", t, func() {
		Convey("When the key and counter are missing", func() {
			c, err := codec.Decode(codec.FormatYAML, []byte(`
arenas:
  - name: Best Coffee
    items:
      - {id: A1, name: Arabica, cost: 12.5}
      - {id: A7, name: Robusta}
`))
			So(err, ShouldBeNil)

			Convey("Then they are derived", func() {
				So(c.Arenas[0].Key, ShouldEqual, "best-coffee")
				So(c.Arenas[0].NextItemID, ShouldEqual, 8)
				So(c.Arenas[0].Items[1].Cost.IsSet(), ShouldBeFalse)
			})
		})

		Convey("When item ids repeat", func() {
			_, err := codec.Decode(codec.FormatJSON, []byte(`{"arenas":[{"key":"x","name":"x","items":[{"id":"A1","name":"a"},{"id":"A1","name":"b"}]}]}`))
			So(errors.Is(err, codec.ErrDecode), ShouldBeTrue)
		})

		Convey("When an item name is blank", func() {
			_, err := codec.Decode(codec.FormatJSON, []byte(`{"arenas":[{"key":"x","items":[{"id":"A1","name":"  "}]}]}`))
			So(errors.Is(err, codec.ErrDecode), ShouldBeTrue)
			So(errors.Is(err, model.ErrInvalidName), ShouldBeTrue)
		})

		Convey("When an item cost is negative", func() {
			_, err := codec.Decode(codec.FormatJSON, []byte(`{"arenas":[{"key":"x","items":[{"id":"A1","name":"a","cost":-5}]}]}`))
			So(errors.Is(err, codec.ErrDecode), ShouldBeTrue)
			So(errors.Is(err, model.ErrInvalidCost), ShouldBeTrue)
		})

		Convey("When an item cost is zero and its name padded", func() {
			c, err := codec.Decode(codec.FormatJSON, []byte(`{"arenas":[{"key":"x","items":[{"id":"A1","name":" Bosc ","cost":0}]}]}`))
			So(err, ShouldBeNil)
			So(c.Arenas[0].Items[0].Name, ShouldEqual, "Bosc")
			v, ok := c.Arenas[0].Items[0].Cost.Value()
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 0)
		})

		Convey("When arena keys repeat", func() {
			_, err := codec.Decode(codec.FormatJSON, []byte(`{"arenas":[{"key":"x"},{"key":"x"}]}`))
			So(errors.Is(err, codec.ErrDecode), ShouldBeTrue)
		})

		Convey("When the payload is malformed", func() {
			_, err := codec.Decode(codec.FormatJSON, []byte(`{"arenas": [`))
			So(errors.Is(err, codec.ErrDecode), ShouldBeTrue)
		})

		Convey("When an outcome time is malformed", func() {
			_, err := codec.Decode(codec.FormatJSON, []byte(`{"arenas":[{"key":"x","outcomes":[{"id":"o","at":"yesterday"}]}]}`))
			So(errors.Is(err, codec.ErrDecode), ShouldBeTrue)
		})
	})
}

func TestFormat(t *testing.T) {
	Convey("Formats are chosen by name or extension", t, func() {
		f, err := codec.ParseFormat("")
		So(err, ShouldBeNil)
		So(f, ShouldEqual, codec.FormatJSON)

		f, err = codec.FormatFromPath("/var/lib/arena/arenas.yml")
		So(err, ShouldBeNil)
		So(f, ShouldEqual, codec.FormatYAML)
		So(f.ContentType(), ShouldEqual, "application/yaml")

		_, err = codec.FormatFromPath("arenas.toml")
		So(errors.Is(err, codec.ErrUnknownFormat), ShouldBeTrue)
		_, err = codec.FormatFromPath("arenas")
		So(errors.Is(err, codec.ErrUnknownFormat), ShouldBeTrue)

		_, err = codec.Encode(codec.Format("xml"), model.Collection{})
		So(err, ShouldNotBeNil)
		So(strings.Contains(err.Error(), "xml"), ShouldBeTrue)
	})
}
