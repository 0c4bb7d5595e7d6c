package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/xcawolfe-amzn/procclean/internal/view"
)

func TestRunGroups_JSON(t *testing.T) {
	setupFakeProcfs(t, []fakeEntry{
		{pid: 300, name: "node", ppid: 2, rssPages: pagesForMB(40)},
		{pid: 301, name: "node", ppid: 2, rssPages: pagesForMB(25)},
		{pid: 302, name: "solo", ppid: 2, rssPages: pagesForMB(15)},
	})

	groupsMinMemory = -1
	groupsJSON = true
	defer func() {
		groupsMinMemory = -1
		groupsJSON = false
	}()

	output := captureStdout(t, func() {
		if err := runGroups(&cobra.Command{}, nil); err != nil {
			t.Fatalf("runGroups: %v", err)
		}
	})

	var groups []view.Group
	if err := json.Unmarshal([]byte(output), &groups); err != nil {
		t.Fatalf("unmarshal: %v\noutput: %s", err, output)
	}
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1 (singletons drop): %+v", len(groups), groups)
	}
	g := groups[0]
	if g.Name != "node" || len(g.Processes) != 2 {
		t.Errorf("group = %s with %d members, want node with 2", g.Name, len(g.Processes))
	}
	if g.TotalMB < 60 {
		t.Errorf("total_mb = %.1f, want the summed member memory", g.TotalMB)
	}
}

func TestRunGroups_TextSummary(t *testing.T) {
	setupFakeProcfs(t, []fakeEntry{
		{pid: 300, name: "node", ppid: 2, rssPages: pagesForMB(40)},
		{pid: 301, name: "node", ppid: 2, rssPages: pagesForMB(25)},
	})

	groupsMinMemory = -1
	groupsJSON = false
	defer func() { groupsMinMemory = -1 }()

	output := captureStdout(t, func() {
		if err := runGroups(&cobra.Command{}, nil); err != nil {
			t.Fatalf("runGroups: %v", err)
		}
	})

	if !strings.Contains(output, "1 process groups found") {
		t.Errorf("output = %q, want the group count line", output)
	}
	if !strings.Contains(output, "node (2 processes") {
		t.Errorf("output = %q, want the node group line", output)
	}
}
