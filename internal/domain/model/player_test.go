package model_test

import (
	"testing"

	model "github.com/okian/pinochle/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestTeamsBySeat(t *testing.T) {
	convey.Convey("Given four seated players", t, func() {
		players := []model.Player{
			{ID: "p1", Name: "Ann"},
			{ID: "p2", Name: "Bob"},
			{ID: "p3", Name: "Cy"},
			{ID: "p4", Name: "Di"},
		}

		convey.Convey("When pairing by seat", func() {
			teams := model.TeamsBySeat(players)

			convey.Convey("Then opposite seats are partners", func() {
				convey.So(teams, convey.ShouldHaveLength, 2)
				convey.So(teams[0].Has("p1"), convey.ShouldBeTrue)
				convey.So(teams[0].Has("p3"), convey.ShouldBeTrue)
				convey.So(teams[1].Has("p2"), convey.ShouldBeTrue)
				convey.So(teams[1].Has("p4"), convey.ShouldBeTrue)
				convey.So(teams[0].Name, convey.ShouldEqual, "Ann & Cy")
			})
		})

		convey.Convey("When only three are seated", func() {
			convey.So(model.TeamsBySeat(players[:3]), convey.ShouldBeNil)
		})
	})
}

func TestFindPlayer(t *testing.T) {
	convey.Convey("Given a table", t, func() {
		players := []model.Player{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}

		convey.Convey("Then seated players are found", func() {
			p, ok := model.FindPlayer(players, "b")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(p.Name, convey.ShouldEqual, "B")
		})

		convey.Convey("Then strangers are not", func() {
			_, ok := model.FindPlayer(players, "z")
			convey.So(ok, convey.ShouldBeFalse)
		})
	})
}
