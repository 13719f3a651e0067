// Package obslog is a thin seam over glog, kept in one place so the
// rest of the advisor logs through an interface instead of a global
// package, the way the teacher's own util/log wraps its vendored glog
// fork. There is nothing to configure here beyond what glog's flags
// already provide; this package exists to keep call sites short and
// to make the dependency swappable without touching every caller.
package obslog

import "github.com/golang/glog"

func Infof(format string, args ...interface{}) {
	glog.Infof(format, args...)
}

func Warningf(format string, args ...interface{}) {
	glog.Warningf(format, args...)
}

func Errorf(format string, args ...interface{}) {
	glog.Errorf(format, args...)
}
