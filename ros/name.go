package ros

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

const (
	Sep       = "/"
	GlobalNS  = "/"
	PrivateNS = "~"
)

// NameMap remaps resolved topic names to other names.
type NameMap map[string]string

var validName = regexp.MustCompile(`^[~/]?([a-zA-Z_]\w*/)*[a-zA-Z_]\w*/?$`)

func isValidName(name string) bool {
	if len(name) == 0 {
		return true
	}
	if name == "/" || name == "~" {
		return true
	}
	if strings.Contains(name, "//") {
		return false
	}
	return validName.MatchString(name)
}

func isGlobalName(name string) bool {
	return len(name) > 0 && name[0:1] == GlobalNS
}

func isPrivateName(name string) bool {
	return len(name) > 0 && name[0:1] == PrivateNS
}

// Remove sequential seperater
func canonicalizeName(name string) string {
	if name == GlobalNS || name == "" {
		return name
	}
	components := []string{}
	for _, word := range strings.Split(name, Sep) {
		if len(word) > 0 {
			components = append(components, word)
		}
	}
	if name[0:1] == GlobalNS {
		return GlobalNS + strings.Join(components, Sep)
	}
	return strings.Join(components, Sep)
}

func resolveName(name string, namespace string) string {
	canonName := canonicalizeName(name)
	if isGlobalName(canonName) {
		return canonName
	}
	return canonicalizeName(GlobalNS + namespace + Sep + canonName)
}

// TopicResolver turns topic names relative to a robot namespace into
// transport keys. Keys carry no leading separator: "zbot_2/cmd_vel".
type TopicResolver struct {
	namespace string
	mapping   NameMap
}

// NewTopicResolver validates namespace and the remapping rules. Rule keys
// and values are resolved against namespace like any other name.
func NewTopicResolver(namespace string, remapping NameMap) (*TopicResolver, error) {
	if !isValidName(namespace) || isPrivateName(namespace) {
		return nil, errors.Errorf("invalid namespace %q", namespace)
	}
	r := &TopicResolver{
		namespace: canonicalizeName(namespace),
		mapping:   make(NameMap),
	}
	for k, v := range remapping {
		from, err := r.resolve(k)
		if err != nil {
			return nil, errors.Wrap(err, "remap rule")
		}
		to, err := r.resolve(v)
		if err != nil {
			return nil, errors.Wrap(err, "remap rule")
		}
		r.mapping[from] = to
	}
	return r, nil
}

func (r *TopicResolver) resolve(name string) (string, error) {
	if name == "" || name == GlobalNS || !isValidName(name) {
		return "", errors.Errorf("invalid topic name %q", name)
	}
	if isPrivateName(name) {
		return "", errors.Errorf("private topic name %q has no node to resolve against", name)
	}
	return resolveName(name, r.namespace), nil
}

// Resolve returns the transport key of name after remapping.
func (r *TopicResolver) Resolve(name string) (string, error) {
	resolved, err := r.resolve(name)
	if err != nil {
		return "", err
	}
	if remapped, ok := r.mapping[resolved]; ok {
		resolved = remapped
	}
	return strings.TrimPrefix(resolved, GlobalNS), nil
}

// Namespace returns the canonical namespace.
func (r *TopicResolver) Namespace() string {
	return r.namespace
}
