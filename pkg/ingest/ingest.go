// Package ingest walks a directory of Cisco-IOS-style configuration
// files and produces the Corpus of device records that the topology
// builder, validator, traffic analyzer, and simulation engine consume.
package ingest

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/netsim-forge/netsim/pkg/configparse"
	"github.com/netsim-forge/netsim/pkg/model"
	"github.com/netsim-forge/netsim/pkg/netutil"
)

// Corpus is the arena-style owning collection of every device parsed
// from one directory, keyed by stable device id (the filename stem).
type Corpus struct {
	Devices map[string]*model.Device
	// Order preserves the directory listing order devices were loaded
	// in, for output that should mirror source order rather than map
	// iteration order.
	Order []string
}

// DeviceByID returns the device with the given id.
func (c *Corpus) DeviceByID(id string) (*model.Device, bool) {
	d, ok := c.Devices[id]
	return d, ok
}

// Load walks dir non-recursively, parsing every regular file it finds.
// A file that cannot be read produces a synthetic error record
// (model.NewErrorDevice) rather than aborting the load — this realizes
// spec.md §4.1/§7's "file-IO failure → synthetic error record" rule.
func Load(dir string) (*Corpus, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	corpus := &Corpus{Devices: make(map[string]*model.Device, len(names))}

	for _, name := range names {
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		path := filepath.Join(dir, name)

		data, err := os.ReadFile(path)
		if err != nil {
			netutil.WithDevice(stem).WithField("path", path).Warnf("failed to read config file: %v", err)
			dev := model.NewErrorDevice(stem, err)
			corpus.Devices[dev.ID] = dev
			corpus.Order = append(corpus.Order, dev.ID)
			continue
		}

		dev := configparse.Parse(stem, string(data))
		corpus.Devices[dev.ID] = dev
		corpus.Order = append(corpus.Order, dev.ID)
	}

	return corpus, nil
}
