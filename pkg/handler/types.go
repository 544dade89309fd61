package handler

import "sort"

// knownFiles The set of matching files the watchdog has already accounted for
type knownFiles map[string]struct{}

func newKnownFiles(paths []string) knownFiles {
	k := make(knownFiles, len(paths))
	for _, p := range paths {
		k[p] = struct{}{}
	}
	return k
}

func (k knownFiles) contains(path string) bool {
	_, ok := k[path]
	return ok
}

func (k knownFiles) add(path string) {
	k[path] = struct{}{}
}

func (k knownFiles) remove(path string) {
	delete(k, path)
}

// symmetricDifference returns the paths present in exactly one of k and other
func (k knownFiles) symmetricDifference(other knownFiles) (changes []string) {
	for p := range k {
		if !other.contains(p) {
			changes = append(changes, p)
		}
	}
	for p := range other {
		if !k.contains(p) {
			changes = append(changes, p)
		}
	}
	return
}

func (k knownFiles) sorted() []string {
	paths := make([]string, 0, len(k))
	for p := range k {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// companion generates the companion file for an image
type companion interface {
	Process(path string) (dest string, err error)
}
