package json

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/pbanos/cart/tree"
)

/*
NodeEncodeDecoder is an interface for objects
that allow encoding nodes into slices of
bytes and decoding them back to nodes.
*/
type NodeEncodeDecoder interface {

	//Encode receives a *tree.Node
	// and returns a slice of bytes with the node
	//encoded or an error if the encoding could not
	//be performed for some reason.
	Encode(*tree.Node) ([]byte, error)

	//Decode receives a slice of bytes
	//and returns a *tree.Node decoded from the
	//slice of bytes or an error if the decoding
	//could not be performed for some reason.
	Decode([]byte) (*tree.Node, error)
}

type nodeEncodeDecoder struct{}

type node struct {
	ID            tree.NodeID  `json:"id"`
	ParentID      *tree.NodeID `json:"pId,omitempty"`
	TrueID        *tree.NodeID `json:"tId,omitempty"`
	FalseID       *tree.NodeID `json:"fId,omitempty"`
	Leaf          bool         `json:"leaf,omitempty"`
	Column        int          `json:"col"`
	Threshold     threshold    `json:"thr"`
	Impurity      float64      `json:"imp"`
	MajorityClass int          `json:"cls"`
	Samples       int          `json:"n,omitempty"`
}

// threshold is a float64 that JSON holds as a number when finite and
// as one of the strings "+Inf", "-Inf" or "NaN" otherwise.
type threshold float64

func (t threshold) MarshalJSON() ([]byte, error) {
	v := float64(t)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return json.Marshal(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return json.Marshal(v)
}

func (t *threshold) UnmarshalJSON(data []byte) error {
	var v float64
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("unmarshalling threshold %s: %v", s, err)
		}
		v = f
	} else if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*t = threshold(v)
	return nil
}

/*
NewNodeEncodeDecoder returns a NodeEncodeDecoder that serializes
nodes as JSON objects with the following fields:
* "id": the ID of the node
* "pId", "tId", "fId": the IDs of the parent, true child and false
  child of the node when present
* "leaf": true for leaf nodes
* "col" and "thr": the split column and threshold, the latter as a
  string for infinite thresholds
* "imp": the impurity of the node
* "cls": the majority class of the node
* "n": the number of training rows that reached the node
*/
func NewNodeEncodeDecoder() NodeEncodeDecoder {
	return &nodeEncodeDecoder{}
}

func (ned *nodeEncodeDecoder) Encode(n *tree.Node) ([]byte, error) {
	jn := &node{
		ID:            n.ID,
		ParentID:      n.Parent,
		TrueID:        n.TrueChild,
		FalseID:       n.FalseChild,
		Leaf:          n.IsLeaf(),
		Column:        n.Data.Column,
		Threshold:     threshold(n.Data.Threshold),
		Impurity:      n.Data.Impurity,
		MajorityClass: n.Data.MajorityClass,
		Samples:       n.Data.Samples,
	}
	return json.Marshal(jn)
}

func (ned *nodeEncodeDecoder) Decode(data []byte) (*tree.Node, error) {
	jn := &node{}
	err := json.Unmarshal(data, jn)
	if err != nil {
		return nil, err
	}
	if jn.ID < 0 {
		return nil, fmt.Errorf("unmarshalling node: invalid id %d", jn.ID)
	}
	n := &tree.Node{
		ID:         jn.ID,
		Parent:     jn.ParentID,
		TrueChild:  jn.TrueID,
		FalseChild: jn.FalseID,
		Data: tree.NodeData{
			Column:        jn.Column,
			Threshold:     float64(jn.Threshold),
			Impurity:      jn.Impurity,
			MajorityClass: jn.MajorityClass,
			Samples:       jn.Samples,
		},
	}
	if jn.Leaf {
		n.Data.Kind = tree.Leaf
	}
	return n, nil
}
