package session

import "github.com/hal9000y/graph-mail/internal/mail"

// folderIndex maps folder display names to ids. Names keep the position of
// their first appearance; the id of the last folder with that name wins.
// A numeric selection resolves against the name order, so with duplicate
// names it can disagree with the printed numbering.
type folderIndex struct {
	names []string
	ids   map[string]string
}

func newFolderIndex(folders []mail.FolderSummary) *folderIndex {
	idx := &folderIndex{
		names: make([]string, 0, len(folders)),
		ids:   make(map[string]string, len(folders)),
	}

	for _, f := range folders {
		if _, ok := idx.ids[f.DisplayName]; !ok {
			idx.names = append(idx.names, f.DisplayName)
		}
		idx.ids[f.DisplayName] = f.ID
	}

	return idx
}

// resolve maps a 1-based choice to a folder. Out of range choices wrap
// around the name list, so 0 selects the last name. The index must not be
// empty.
func (x *folderIndex) resolve(choice int) (name, id string) {
	n := len(x.names)

	i := (choice - 1) % n
	if i < 0 {
		i += n
	}

	name = x.names[i]
	return name, x.ids[name]
}
