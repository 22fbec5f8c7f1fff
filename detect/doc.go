// Package detect handles the boundary between the object-detection model
// and the sorter: raw detections are de-duplicated with IoU-based
// non-maximum suppression, filtered for minimum area, and converted into
// model.Element values with stable IDs.
package detect
