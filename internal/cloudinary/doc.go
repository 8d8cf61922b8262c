// Package cloudinary lists the image and video resources tagged with a name
// on a Cloudinary cloud, using the public list endpoints of the delivery host
// (e.g. http://res.cloudinary.com/demo/image/list/cars.json).
package cloudinary
