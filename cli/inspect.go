package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/dfki-ric/phobos/model"
)

// robotTable prints one row per link with the joint connecting it to its parent link.
func robotTable(robot *model.Robot) string {
	t := table.NewWriter()
	t.SetTitle("%s", robot.Name)
	t.AppendHeader(table.Row{"#", "Link", "Parent", "Joint", "Type", "Visuals", "Collisions", "Mass"})
	var totalMass float64
	for i, l := range robot.Links {
		var parent, jointName, jointType, mass string
		if j := robot.JointByChild(l.Name); j != nil {
			parent, jointName, jointType = j.Parent, j.Name, string(j.Type)
		}
		if l.Inertial != nil {
			mass = fmt.Sprintf("%g", l.Inertial.Mass)
			totalMass += l.Inertial.Mass
		}
		t.AppendRow(table.Row{i + 1, l.Name, parent, jointName, jointType, len(l.Visuals), len(l.Collisions), mass})
	}
	t.AppendFooter(table.Row{
		"", fmt.Sprintf("%d links", len(robot.Links)), "", fmt.Sprintf("%d joints", len(robot.Joints)),
		"", "", "", fmt.Sprintf("%g", totalMass),
	})
	if len(robot.Sensors)+len(robot.Motors) > 0 {
		t.SetCaption("%d sensors, %d motors", len(robot.Sensors), len(robot.Motors))
	}
	return t.Render()
}
